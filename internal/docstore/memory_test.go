package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

func TestMemory_GetNotFound(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemory_MergeSemantics(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	txs := []transaction.Transaction{
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Description: "Grocery Store", Amount: -45.32},
	}
	cats := []savings.Category{
		{ID: "1", Name: "Cash", GoalAmount: 500},
	}

	if err := m.SaveTransactions(ctx, "uid-1", txs); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}
	if err := m.SaveCategories(ctx, "uid-1", cats); err != nil {
		t.Fatalf("SaveCategories() error = %v", err)
	}

	doc, err := m.Get(ctx, "uid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Writing categories did not clobber the transaction field.
	if len(doc.TransactionData) != 1 || len(doc.Categories) != 1 {
		t.Errorf("doc = %+v, want both fields populated", doc)
	}
	if doc.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SaveCategories(ctx, "uid-1", []savings.Category{{ID: "1", Name: "Cash", GoalAmount: 100}}); err != nil {
		t.Fatalf("SaveCategories() error = %v", err)
	}

	doc, err := m.Get(ctx, "uid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	doc.Categories[0].Name = "mutated"

	doc2, err := m.Get(ctx, "uid-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc2.Categories[0].Name != "Cash" {
		t.Error("Get() exposed internal state to mutation")
	}
}
