// Package auth is the gateway between the app and the identity provider.
// It owns sign-up, sign-in (including the decoy short-circuit), sign-out,
// and the sensitive account operations that require password re-entry.
package auth

import "context"

// User is the provider's view of an account.
type User struct {
	UID   string
	Email string
}

// Identity abstracts the identity provider. The production implementation
// is Firebase; tests substitute a fake.
type Identity interface {
	// CreateUser registers a new email/password account.
	CreateUser(ctx context.Context, email, password string) (*User, error)

	// VerifyPassword checks email/password against the provider and
	// returns the matching user. Wrong credentials come back as
	// ErrUserNotFound or ErrWrongPassword.
	VerifyPassword(ctx context.Context, email, password string) (*User, error)

	// GetUser looks an account up by UID.
	GetUser(ctx context.Context, uid string) (*User, error)

	// UpdatePassword replaces the account password.
	UpdatePassword(ctx context.Context, uid, newPassword string) error

	// DeleteUser removes the account from the provider.
	DeleteUser(ctx context.Context, uid string) error

	// RevokeSessions invalidates the account's refresh tokens.
	RevokeSessions(ctx context.Context, uid string) error
}
