package decoy

import (
	"context"
	"errors"

	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

// Store is an in-memory document store that serves the decoy dataset for
// any account id, seeding it on first read. Edits made during a decoy
// session stick for that process's lifetime and vanish on restart.
type Store struct {
	mem *docstore.Memory
}

// NewStore creates a decoy store.
func NewStore() *Store {
	return &Store{mem: docstore.NewMemory()}
}

func (s *Store) Get(ctx context.Context, uid string) (*docstore.UserDocument, error) {
	doc, err := s.mem.Get(ctx, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		if err := Seed(ctx, s.mem, uid); err != nil {
			return nil, err
		}
		return s.mem.Get(ctx, uid)
	}

	return doc, err
}

func (s *Store) SaveCategories(ctx context.Context, uid string, categories []savings.Category) error {
	return s.mem.SaveCategories(ctx, uid, categories)
}

func (s *Store) SaveTransactions(ctx context.Context, uid string, txs []transaction.Transaction) error {
	return s.mem.SaveTransactions(ctx, uid, txs)
}

var _ docstore.Store = (*Store)(nil)
