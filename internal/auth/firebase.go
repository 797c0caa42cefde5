package auth

import (
	"context"
	"errors"
	"fmt"
	"net"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// FirebaseIdentity implements Identity on Firebase: account management goes
// through the Admin SDK, password verification through the Identity Toolkit
// API (the Admin SDK has no password check).
type FirebaseIdentity struct {
	client  *fbauth.Client
	toolkit *identitytoolkit.RelyingpartyService
}

// NewFirebaseIdentity builds the Firebase-backed identity provider.
// projectID selects the Firebase project; apiKey is the web API key the
// Identity Toolkit sign-in endpoint requires.
func NewFirebaseIdentity(ctx context.Context, projectID, apiKey string, opts ...option.ClientOption) (*FirebaseIdentity, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	tkOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := identitytoolkit.NewService(ctx, tkOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
	}

	return &FirebaseIdentity{
		client:  client,
		toolkit: svc.Relyingparty,
	}, nil
}

func (f *FirebaseIdentity) CreateUser(ctx context.Context, email, password string) (*User, error) {
	params := (&fbauth.UserToCreate{}).Email(email).Password(password)

	record, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return nil, classifyAdminError(err)
	}

	return &User{UID: record.UID, Email: record.Email}, nil
}

func (f *FirebaseIdentity) VerifyPassword(ctx context.Context, email, password string) (*User, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	resp, err := f.toolkit.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		return nil, classifyToolkitCallError(err)
	}

	return &User{UID: resp.LocalId, Email: resp.Email}, nil
}

func (f *FirebaseIdentity) GetUser(ctx context.Context, uid string) (*User, error) {
	record, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return nil, classifyAdminError(err)
	}

	return &User{UID: record.UID, Email: record.Email}, nil
}

func (f *FirebaseIdentity) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	params := (&fbauth.UserToUpdate{}).Password(newPassword)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return classifyAdminError(err)
	}

	return nil
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		return classifyAdminError(err)
	}

	return nil
}

func (f *FirebaseIdentity) RevokeSessions(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return classifyAdminError(err)
	}

	return nil
}

func classifyAdminError(err error) error {
	switch {
	case fbauth.IsEmailAlreadyExists(err):
		return fmt.Errorf("%w: %v", ErrEmailInUse, err)
	case fbauth.IsUserNotFound(err):
		return fmt.Errorf("%w: %v", ErrUserNotFound, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return err
}

func classifyToolkitCallError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return classifyToolkitError(apiErr.Message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return err
}

var _ Identity = (*FirebaseIdentity)(nil)
