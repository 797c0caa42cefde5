// Package decoy serves the fabricated finance data shown to decoy-mode
// sessions. The dataset is deterministic and entirely separate from any
// real account document: a decoy session never reads or writes real data.
package decoy

import (
	"context"
	"time"

	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/savings"
	"github.com/ecaldwell/cipher/internal/transaction"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// Transactions returns the benign fixed history: ordinary household
// spending with a regular payroll deposit and no red flags.
func Transactions() []transaction.Transaction {
	return []transaction.Transaction{
		{Date: day(2024, 1, 5), Description: "Payroll Deposit", Category: "Income", Amount: 2150.00},
		{Date: day(2024, 1, 7), Description: "Grocery Store", Category: "Groceries", Amount: -84.17},
		{Date: day(2024, 1, 9), Description: "Gas Station", Category: "Transport", Amount: -52.10},
		{Date: day(2024, 1, 12), Description: "Coffee Shop", Category: "Dining", Amount: -6.50},
		{Date: day(2024, 1, 14), Description: "Pharmacy", Category: "Health", Amount: -23.48},
		{Date: day(2024, 1, 15), Description: "Grocery Store", Category: "Groceries", Amount: -45.32},
		{Date: day(2024, 1, 18), Description: "Restaurant", Category: "Dining", Amount: -78.25},
		{Date: day(2024, 1, 19), Description: "Streaming Service", Category: "Entertainment", Amount: -14.99},
		{Date: day(2024, 1, 20), Description: "Payroll Deposit", Category: "Income", Amount: 2150.00},
		{Date: day(2024, 1, 23), Description: "Utility Payment", Category: "Housing", Amount: -112.40},
		{Date: day(2024, 1, 26), Description: "Grocery Store", Category: "Groceries", Amount: -67.90},
		{Date: day(2024, 1, 28), Description: "Bookstore", Category: "Entertainment", Amount: -31.25},
	}
}

// Categories returns modest, unremarkable savings categories.
func Categories() []savings.Category {
	return []savings.Category{
		{ID: "decoy-1", Name: "Vacation Fund", Location: "Savings account", CurrentAmount: 340, GoalAmount: 1200},
		{ID: "decoy-2", Name: "Holiday Gifts", Location: "Checking account", CurrentAmount: 85, GoalAmount: 300},
	}
}

// Seed writes the decoy dataset into a store under the given uid. Used to
// pre-populate the in-memory store backing a decoy session, and by the
// seeding command for demos.
func Seed(ctx context.Context, store docstore.Store, uid string) error {
	if err := store.SaveTransactions(ctx, uid, Transactions()); err != nil {
		return err
	}
	return store.SaveCategories(ctx, uid, Categories())
}
