package session

import (
	"path/filepath"
	"testing"

	"github.com/ecaldwell/cipher/internal/keystore"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	ks, err := keystore.Open(filepath.Join(t.TempDir(), "s.keystore"), "test")
	if err != nil {
		t.Fatalf("keystore.Open() error = %v", err)
	}
	return NewStore(ks)
}

func TestStore_SaveCurrentClear(t *testing.T) {
	s := newStore(t)

	if _, ok := s.Current(); ok {
		t.Fatal("Current() on empty store reported a session")
	}

	sess := Session{
		UserID:            "uid-1",
		Password:          "secret",
		CustomerID:        "cust-9",
		Email:             "a@b.c",
		BiometricsEnabled: true,
	}
	if err := s.Save(sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok := s.Current()
	if !ok {
		t.Fatal("Current() after Save() found no session")
	}
	if got != sess {
		t.Errorf("Current() = %+v, want %+v", got, sess)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("Current() after Clear() still reports a session")
	}
	if s.IsDecoy() {
		t.Error("IsDecoy() after Clear() = true")
	}
}

func TestStore_DecoyFlag(t *testing.T) {
	s := newStore(t)

	if s.IsDecoy() {
		t.Error("IsDecoy() default = true, want false")
	}
	if err := s.SetDecoy(true); err != nil {
		t.Fatalf("SetDecoy() error = %v", err)
	}
	if !s.IsDecoy() {
		t.Error("IsDecoy() after SetDecoy(true) = false")
	}
}

func TestStore_BiometricsFlagIndependentOfSession(t *testing.T) {
	s := newStore(t)

	if err := s.SetBiometricsEnabled(true); err != nil {
		t.Fatalf("SetBiometricsEnabled() error = %v", err)
	}
	if !s.BiometricsEnabled() {
		t.Error("BiometricsEnabled() = false, want true")
	}
	// No session needs to exist for the flag to be set.
	if _, ok := s.Current(); ok {
		t.Error("Current() reported a session from the flag alone")
	}
}

func TestStore_CustomerIDSurvivesClear(t *testing.T) {
	s := newStore(t)

	if err := s.SetCustomerID("uid-1", "cust-42"); err != nil {
		t.Fatalf("SetCustomerID() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, ok := s.CustomerID("uid-1")
	if !ok || got != "cust-42" {
		t.Errorf("CustomerID() = %q, %v; want cust-42, true", got, ok)
	}
}
