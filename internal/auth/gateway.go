package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/config"
	"github.com/ecaldwell/cipher/internal/session"
)

// Gateway coordinates the identity provider and the local session store.
type Gateway struct {
	identity Identity
	sessions *session.Store
	log      zerolog.Logger
}

// NewGateway creates an auth gateway.
func NewGateway(identity Identity, sessions *session.Store, log zerolog.Logger) *Gateway {
	return &Gateway{
		identity: identity,
		sessions: sessions,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

// SignUp registers a new account and associates the bank customer id with
// the new UID. The association is stored locally under the UID so it
// survives sign-out.
func (g *Gateway) SignUp(ctx context.Context, email, password, customerID string) error {
	user, err := g.identity.CreateUser(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}

	if err := g.sessions.SetCustomerID(user.UID, customerID); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}

	sess := session.Session{
		UserID:     user.UID,
		Password:   password,
		CustomerID: customerID,
		Email:      user.Email,
	}
	if err := g.sessions.Save(sess); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}

	g.log.Info().Str("uid", user.UID).Msg("Account created")

	return nil
}

// SignIn authenticates the user. When the password equals the decoy PIN the
// provider is never contacted: the decoy flag is set and the call succeeds,
// returning decoy=true. The decoy flag is a local UI branch only and never
// changes the real account's state.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (decoy bool, err error) {
	if password == config.DecoyPIN {
		if err := g.sessions.SetDecoy(true); err != nil {
			return false, fmt.Errorf("sign in: %w", err)
		}
		g.log.Info().Msg("Decoy session started")
		return true, nil
	}

	user, err := g.identity.VerifyPassword(ctx, email, password)
	if err != nil {
		return false, fmt.Errorf("sign in: %w", err)
	}

	customerID, _ := g.sessions.CustomerID(user.UID)

	sess := session.Session{
		UserID:            user.UID,
		Password:          password,
		CustomerID:        customerID,
		Email:             user.Email,
		BiometricsEnabled: g.sessions.BiometricsEnabled(),
	}
	if err := g.sessions.Save(sess); err != nil {
		return false, fmt.Errorf("sign in: %w", err)
	}
	if err := g.sessions.SetDecoy(false); err != nil {
		return false, fmt.Errorf("sign in: %w", err)
	}

	g.log.Info().Str("uid", user.UID).Msg("Signed in")

	return false, nil
}

// SignOut revokes provider sessions (best effort for decoy sessions, which
// have none) and clears local state including the decoy flag.
func (g *Gateway) SignOut(ctx context.Context) error {
	if sess, ok := g.sessions.Current(); ok && !g.sessions.IsDecoy() {
		if err := g.identity.RevokeSessions(ctx, sess.UserID); err != nil {
			g.log.Warn().Err(err).Msg("Failed to revoke provider sessions")
		}
	}

	if err := g.sessions.Clear(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	return nil
}

// IsSignedIn reports whether both the provider and the local session agree
// that an account is signed in. A decoy session counts as signed in without
// consulting the provider. Any disagreement reads as signed out.
func (g *Gateway) IsSignedIn(ctx context.Context) bool {
	if g.sessions.IsDecoy() {
		return true
	}

	sess, ok := g.sessions.Current()
	if !ok {
		return false
	}

	if _, err := g.identity.GetUser(ctx, sess.UserID); err != nil {
		g.log.Debug().Err(err).Msg("Provider lookup failed for stored session")
		return false
	}

	return true
}

// IsDecoy reports whether the current session is a decoy session.
func (g *Gateway) IsDecoy() bool {
	return g.sessions.IsDecoy()
}

// IsBiometricsEnabled reports the local biometric app-lock preference.
func (g *Gateway) IsBiometricsEnabled() bool {
	return g.sessions.BiometricsEnabled()
}

// SetBiometricsEnabled toggles the local biometric app-lock preference.
func (g *Gateway) SetBiometricsEnabled(v bool) error {
	return g.sessions.SetBiometricsEnabled(v)
}

// VerifyPassword re-checks the signed-in user's password without a full
// sign-in. Sensitive operations call this first.
func (g *Gateway) VerifyPassword(ctx context.Context, password string) error {
	if g.sessions.IsDecoy() {
		return ErrDecoySessionBlocked
	}

	sess, ok := g.sessions.Current()
	if !ok {
		return ErrNotSignedIn
	}

	if _, err := g.identity.VerifyPassword(ctx, sess.Email, password); err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	return nil
}

// UpdatePassword replaces the account password after verifying the old one.
func (g *Gateway) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := g.VerifyPassword(ctx, oldPassword); err != nil {
		return err
	}

	sess, _ := g.sessions.Current()
	if err := g.identity.UpdatePassword(ctx, sess.UserID, newPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	sess.Password = newPassword
	if err := g.sessions.Save(sess); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	g.log.Info().Str("uid", sess.UserID).Msg("Password updated")

	return nil
}

// DeleteAccount removes the account. The caller must pass the exact
// confirmation string "DELETE" and the current password.
func (g *Gateway) DeleteAccount(ctx context.Context, password, confirm string) error {
	if confirm != "DELETE" {
		return ErrConfirmationNeeded
	}

	if err := g.VerifyPassword(ctx, password); err != nil {
		return err
	}

	sess, _ := g.sessions.Current()
	if err := g.identity.DeleteUser(ctx, sess.UserID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	if err := g.sessions.Clear(); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	g.log.Info().Str("uid", sess.UserID).Msg("Account deleted")

	return nil
}
