package savings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ecaldwell/cipher/internal/insight"
)

var (
	// ErrEmptyName is returned when adding or editing with no name.
	ErrEmptyName = errors.New("savings: category name is required")

	// ErrInvalidGoal is returned for a zero or negative goal amount.
	ErrInvalidGoal = errors.New("savings: goal amount must be positive")

	// ErrNotFound is returned when no category has the given id.
	ErrNotFound = errors.New("savings: category not found")
)

// Flusher persists the full category list for an account. Writes are
// last-writer-wins whole-list replacements; concurrent edits from two
// devices can overwrite each other, an accepted limitation.
type Flusher interface {
	SaveCategories(ctx context.Context, uid string, categories []Category) error
}

// Tracker is the editable working copy of an account's savings categories.
// Every mutation is applied in memory first and then flushed; a failed
// flush is reported to the caller but not retried, and the in-memory state
// stays usable.
type Tracker struct {
	uid   string
	store Flusher

	mu         sync.Mutex
	categories []Category
}

// NewTracker wraps an account's category list loaded from the data store.
func NewTracker(uid string, store Flusher, initial []Category) *Tracker {
	return &Tracker{
		uid:        uid,
		store:      store,
		categories: append([]Category(nil), initial...),
	}
}

// Categories returns a copy of the current list.
func (t *Tracker) Categories() []Category {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Category(nil), t.categories...)
}

// Add creates a category starting at zero saved.
func (t *Tracker) Add(ctx context.Context, name, location string, goal float64) (Category, error) {
	if name == "" {
		return Category{}, ErrEmptyName
	}
	if goal <= 0 {
		return Category{}, ErrInvalidGoal
	}

	cat := Category{
		ID:         newID(),
		Name:       name,
		Location:   location,
		GoalAmount: goal,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.categories = append(t.categories, cat)
	return cat, t.flush(ctx)
}

// Edit replaces name, location, and goal for one entry. The saved amount is
// untouched.
func (t *Tracker) Edit(ctx context.Context, id, name, location string, goal float64) error {
	if name == "" {
		return ErrEmptyName
	}
	if goal <= 0 {
		return ErrInvalidGoal
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx == -1 {
		return ErrNotFound
	}

	t.categories[idx].Name = name
	t.categories[idx].Location = location
	t.categories[idx].GoalAmount = goal

	return t.flush(ctx)
}

// Delete removes a category by id.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx == -1 {
		return ErrNotFound
	}

	t.categories = append(t.categories[:idx], t.categories[idx+1:]...)
	return t.flush(ctx)
}

// Adjust adds delta (which may be negative) to a category's saved amount.
// No floor or ceiling is enforced; only the progress display caps at 100%.
func (t *Tracker) Adjust(ctx context.Context, id string, delta float64) (Category, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(id)
	if idx == -1 {
		return Category{}, ErrNotFound
	}

	t.categories[idx].CurrentAmount += delta
	return t.categories[idx], t.flush(ctx)
}

// FromPlan materializes an AI-generated plan into new categories, each
// starting at zero saved.
func (t *Tracker) FromPlan(ctx context.Context, plan *insight.PlanDocument) ([]Category, error) {
	if plan == nil || len(plan.Categories) == 0 {
		return nil, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var added []Category
	for _, pc := range plan.Categories {
		if pc.Name == "" || pc.GoalAmount <= 0 {
			continue
		}
		cat := Category{
			ID:         newID(),
			Name:       pc.Name,
			Location:   pc.Location,
			GoalAmount: pc.GoalAmount,
		}
		t.categories = append(t.categories, cat)
		added = append(added, cat)
	}

	return added, t.flush(ctx)
}

func (t *Tracker) indexOf(id string) int {
	for i, c := range t.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// flush writes the whole list. Callers must hold t.mu.
func (t *Tracker) flush(ctx context.Context) error {
	if err := t.store.SaveCategories(ctx, t.uid, t.categories); err != nil {
		return fmt.Errorf("savings: sync categories: %w", err)
	}
	return nil
}
