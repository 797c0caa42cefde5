// Package session holds the signed-in session state for one installed app.
//
// The state lives in the encrypted keystore and is owned by an explicit
// Store object injected into the auth gateway and routing controller; there
// are no ambient singletons. One session per installed app per account.
package session

import (
	"fmt"
	"strconv"

	"github.com/ecaldwell/cipher/internal/keystore"
)

const (
	keyUserID     = "user_id"
	keyPassword   = "user_password"
	keyCustomerID = "customer_id"
	keyEmail      = "user_email"
	keyBiometrics = "biometrics_enabled"
	keyDecoy      = "decoy_mode"
)

// Session is the persisted state of a signed-in account.
type Session struct {
	UserID            string
	Password          string
	CustomerID        string
	Email             string
	BiometricsEnabled bool
}

// Store reads and writes session state through the keystore.
type Store struct {
	ks *keystore.Store
}

func NewStore(ks *keystore.Store) *Store {
	return &Store{ks: ks}
}

// Current returns the stored session. The second return is false when no
// user id is stored, i.e. nobody is signed in locally.
func (s *Store) Current() (Session, bool) {
	uid, ok := s.ks.Get(keyUserID)
	if !ok || uid == "" {
		return Session{}, false
	}

	sess := Session{UserID: uid}
	sess.Password, _ = s.ks.Get(keyPassword)
	sess.CustomerID, _ = s.ks.Get(keyCustomerID)
	sess.Email, _ = s.ks.Get(keyEmail)
	sess.BiometricsEnabled = s.boolFlag(keyBiometrics)

	return sess, true
}

// Save persists the session fields.
func (s *Store) Save(sess Session) error {
	pairs := map[string]string{
		keyUserID:     sess.UserID,
		keyPassword:   sess.Password,
		keyCustomerID: sess.CustomerID,
		keyEmail:      sess.Email,
		keyBiometrics: strconv.FormatBool(sess.BiometricsEnabled),
	}

	for k, v := range pairs {
		if err := s.ks.Set(k, v); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	return nil
}

// Clear removes the session and the decoy flag. Per-UID customer id
// associations survive sign-out so a returning account keeps its link.
func (s *Store) Clear() error {
	for _, k := range []string{keyUserID, keyPassword, keyCustomerID, keyEmail, keyBiometrics, keyDecoy} {
		if err := s.ks.Delete(k); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}

	return nil
}

// IsDecoy reports whether the current session runs in decoy mode.
func (s *Store) IsDecoy() bool {
	return s.boolFlag(keyDecoy)
}

// SetDecoy sets the decoy flag. It is purely a local UI branch; it never
// changes the real account's authentication state.
func (s *Store) SetDecoy(v bool) error {
	if err := s.ks.Set(keyDecoy, strconv.FormatBool(v)); err != nil {
		return fmt.Errorf("set decoy flag: %w", err)
	}
	return nil
}

// BiometricsEnabled reports the local biometric app-lock preference.
func (s *Store) BiometricsEnabled() bool {
	return s.boolFlag(keyBiometrics)
}

// SetBiometricsEnabled toggles the biometric app-lock preference. The flag
// is local only and independent of account state.
func (s *Store) SetBiometricsEnabled(v bool) error {
	if err := s.ks.Set(keyBiometrics, strconv.FormatBool(v)); err != nil {
		return fmt.Errorf("set biometrics flag: %w", err)
	}
	return nil
}

// SetCustomerID associates a bank customer id with a provider UID.
func (s *Store) SetCustomerID(uid, customerID string) error {
	if err := s.ks.Set("customer_id_"+uid, customerID); err != nil {
		return fmt.Errorf("set customer id: %w", err)
	}
	return nil
}

// CustomerID returns the bank customer id associated with a provider UID.
func (s *Store) CustomerID(uid string) (string, bool) {
	return s.ks.Get("customer_id_" + uid)
}

func (s *Store) boolFlag(key string) bool {
	v, ok := s.ks.Get(key)
	if !ok {
		return false
	}

	b, err := strconv.ParseBool(v)
	return err == nil && b
}
