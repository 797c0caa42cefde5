// Package transaction defines the normalized transaction record.
package transaction

import "time"

// Transaction is one row of imported account history. Amounts are signed:
// negative is money out, positive is money in. Records are immutable once
// stored and serve as read-only input to analysis.
type Transaction struct {
	Date        time.Time `json:"date" firestore:"date"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category,omitempty" firestore:"category,omitempty"`
	Amount      float64   `json:"amount" firestore:"amount"`
}
