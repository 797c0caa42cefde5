// Package docstore reads and writes the per-account finance document.
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

// ErrNotFound is returned when no document exists for the account yet.
var ErrNotFound = errors.New("docstore: document not found")

// UserDocument is the single document stored per account. Writes are
// field-level merge-upserts; there is no version check, so the last writer
// wins.
type UserDocument struct {
	TransactionData []transaction.Transaction `json:"transactionData" firestore:"transactionData"`
	Categories      []savings.Category        `json:"categories" firestore:"categories"`
	UpdatedAt       time.Time                 `json:"updatedAt" firestore:"updatedAt"`
}

// Store is the finance data store: point lookups by account id and
// merge-upsert writes.
type Store interface {
	Get(ctx context.Context, uid string) (*UserDocument, error)
	SaveCategories(ctx context.Context, uid string, categories []savings.Category) error
	SaveTransactions(ctx context.Context, uid string, txs []transaction.Transaction) error
}
