// Package savings tracks savings categories with goal amounts and derived
// progress.
package savings

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultNames are the fixed name options offered when adding a category;
// any other non-empty name is treated as a custom entry.
var DefaultNames = []string{"Cash", "Personal Checking Account", "Gift Cards"}

// Category is one tracked savings bucket. Location is a free-text hint of
// where the funds are physically kept. CurrentAmount is never clamped: it
// may go negative or exceed the goal.
type Category struct {
	ID            string  `json:"id" firestore:"id"`
	Name          string  `json:"name" firestore:"name"`
	Location      string  `json:"location" firestore:"location"`
	CurrentAmount float64 `json:"currentAmount" firestore:"currentAmount"`
	GoalAmount    float64 `json:"goalAmount" firestore:"goalAmount"`
}

// Progress is the displayed completion percentage. It is computed, never
// stored: min(current/goal*100, 100). A non-positive goal displays as 0.
func (c Category) Progress() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}

	p := c.CurrentAmount / c.GoalAmount * 100
	if p > 100 {
		return 100
	}
	return p
}

// newID returns a generation-time id: millisecond timestamp plus random
// suffix.
func newID() string {
	var buf [4]byte
	rand.Read(buf[:])
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf[:]))
}
