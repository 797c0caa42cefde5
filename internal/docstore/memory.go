package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

// Memory is an in-memory Store used in tests, local development, and for
// decoy-mode sessions, which must never touch the real account document.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]*UserDocument
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]*UserDocument)}
}

func (m *Memory) Get(ctx context.Context, uid string) (*UserDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[uid]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *doc
	cp.TransactionData = append([]transaction.Transaction(nil), doc.TransactionData...)
	cp.Categories = append([]savings.Category(nil), doc.Categories...)
	return &cp, nil
}

func (m *Memory) SaveCategories(ctx context.Context, uid string, categories []savings.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.docs[uid]
	if doc == nil {
		doc = &UserDocument{}
		m.docs[uid] = doc
	}

	doc.Categories = append([]savings.Category(nil), categories...)
	doc.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) SaveTransactions(ctx context.Context, uid string, txs []transaction.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.docs[uid]
	if doc == nil {
		doc = &UserDocument{}
		m.docs[uid] = doc
	}

	doc.TransactionData = append([]transaction.Transaction(nil), txs...)
	doc.UpdatedAt = time.Now()
	return nil
}
