package keystore

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.keystore")

	s, err := Open(path, "passphrase")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.Set("user_id", "uid-1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("user_email", "a@b.c"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Reopen with the same passphrase and expect the values back.
	s2, err := Open(path, "passphrase")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}

	if v, ok := s2.Get("user_id"); !ok || v != "uid-1" {
		t.Errorf("Get(user_id) = %q, %v; want uid-1, true", v, ok)
	}
	if v, ok := s2.Get("user_email"); !ok || v != "a@b.c" {
		t.Errorf("Get(user_email) = %q, %v; want a@b.c, true", v, ok)
	}
}

func TestStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.keystore")

	s, err := Open(path, "right")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, err = Open(path, "wrong")
	if !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Open() with wrong passphrase error = %v, want ErrBadPassphrase", err)
	}
}

func TestStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.keystore")

	s, err := Open(path, "p")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Get() after Delete() still present")
	}

	// Deleting a missing key is a no-op.
	if err := s.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.keystore")

	s, err := Open(path, "p")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Error("new store should be empty")
	}
}
