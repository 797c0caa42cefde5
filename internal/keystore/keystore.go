// Package keystore is an encrypted key-value store for session credentials.
//
// Values are kept in memory and flushed to a single file encrypted with
// AES-256-GCM. The key is derived from a passphrase; a wrong passphrase
// fails to open the file rather than returning garbage.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrBadPassphrase is returned when an existing keystore file cannot be
// decrypted with the supplied passphrase.
var ErrBadPassphrase = errors.New("keystore: wrong passphrase or corrupt file")

// Store is a file-backed encrypted string key-value store.
// It is safe for concurrent use.
type Store struct {
	path string
	aead cipher.AEAD

	mu     sync.Mutex
	values map[string]string
}

// Open loads the keystore at path, creating an empty one if the file does
// not exist yet.
func Open(path, passphrase string) (*Store, error) {
	key := sha256.Sum256([]byte(passphrase))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("keystore: init cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keystore: init gcm: %w", err)
	}

	s := &Store{
		path:   path,
		aead:   aead,
		values: make(map[string]string),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

// Set stores the value and flushes the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.persist()
}

// Delete removes the key and flushes the file. Deleting a missing key is a
// no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}

	delete(s.values, key)
	return s.persist()
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("keystore: read %s: %w", s.path, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return ErrBadPassphrase
	}

	plain, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return ErrBadPassphrase
	}

	if err := json.Unmarshal(plain, &s.values); err != nil {
		return fmt.Errorf("keystore: decode values: %w", err)
	}

	return nil
}

func (s *Store) persist() error {
	plain, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("keystore: encode values: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("keystore: generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plain, nil)

	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("keystore: write %s: %w", s.path, err)
	}

	return nil
}
