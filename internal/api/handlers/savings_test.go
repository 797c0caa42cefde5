package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/savings"
)

func newSavingsRouter(store docstore.Store) http.Handler {
	h := NewSavingsHandler(store, docstore.NewMemory(), func() bool { return false }, zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/api/savings", h.List)
	r.Post("/api/savings", h.Create)
	r.Post("/api/savings/plan", h.FromPlan)
	r.Patch("/api/savings/{id}", h.Update)
	r.Delete("/api/savings/{id}", h.Delete)
	r.Post("/api/savings/{id}/adjust", h.Adjust)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSavings_CreateAdjustProgress(t *testing.T) {
	store := docstore.NewMemory()
	router := newSavingsRouter(store)

	rec := doJSON(t, router, http.MethodPost, "/api/savings", map[string]interface{}{
		"user_id":     "u1",
		"name":        "Emergency Fund",
		"location":    "Under the mattress",
		"goal_amount": 500,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created category has no id")
	}

	for _, delta := range []float64{10, 50, -20} {
		rec = doJSON(t, router, http.MethodPost, "/api/savings/"+created.ID+"/adjust", map[string]interface{}{
			"user_id": "u1",
			"delta":   delta,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("Adjust(%v) status = %d, body %s", delta, rec.Code, rec.Body.String())
		}
	}

	var adjusted struct {
		CurrentAmount float64 `json:"currentAmount"`
		Progress      float64 `json:"progress"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &adjusted); err != nil {
		t.Fatal(err)
	}
	if adjusted.CurrentAmount != 40 {
		t.Errorf("current_amount = %v, want 40", adjusted.CurrentAmount)
	}
	if adjusted.Progress != 8 {
		t.Errorf("progress = %v, want 8", adjusted.Progress)
	}

	// Mutations must have been flushed to the store.
	doc, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(doc.Categories) != 1 || doc.Categories[0].CurrentAmount != 40 {
		t.Errorf("persisted categories = %+v, want one with 40 saved", doc.Categories)
	}
}

func TestSavings_CreateValidation(t *testing.T) {
	router := newSavingsRouter(docstore.NewMemory())

	rec := doJSON(t, router, http.MethodPost, "/api/savings", map[string]interface{}{
		"user_id":     "u1",
		"name":        "",
		"goal_amount": 100,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Create with empty name status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/savings", map[string]interface{}{
		"user_id":     "u1",
		"name":        "X",
		"goal_amount": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Create with zero goal status = %d, want 400", rec.Code)
	}
}

func TestSavings_DeleteUnknown(t *testing.T) {
	router := newSavingsRouter(docstore.NewMemory())

	rec := doJSON(t, router, http.MethodDelete, "/api/savings/nope?user_id=u1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Delete unknown id status = %d, want 404", rec.Code)
	}
}

func TestSavings_FromPlan(t *testing.T) {
	store := docstore.NewMemory()
	router := newSavingsRouter(store)

	rec := doJSON(t, router, http.MethodPost, "/api/savings/plan", map[string]interface{}{
		"user_id": "u1",
		"plan": map[string]interface{}{
			"categories": []map[string]interface{}{
				{"name": "Cash", "location": "Trusted friend", "goal_amount": 300},
				{"name": "", "goal_amount": 100},
			},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("FromPlan status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("plan added %d categories, want 1 (empty name skipped)", resp.Count)
	}
}

func TestSavings_DecoySessionUsesDecoyStore(t *testing.T) {
	real := docstore.NewMemory()
	decoy := docstore.NewMemory()
	if err := decoy.SaveCategories(context.Background(), "u1", []savings.Category{
		{ID: "d1", Name: "Vacation Fund", GoalAmount: 100},
	}); err != nil {
		t.Fatal(err)
	}

	h := NewSavingsHandler(real, decoy, func() bool { return true }, zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/api/savings", h.List)
	r.Post("/api/savings", h.Create)

	rec := doJSON(t, r, http.MethodGet, "/api/savings?user_id=u1", nil)
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("decoy list count = %d, want 1", resp.Count)
	}

	// A write in decoy mode must never reach the real store.
	rec = doJSON(t, r, http.MethodPost, "/api/savings", map[string]interface{}{
		"user_id":     "u1",
		"name":        "New",
		"goal_amount": 50,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d", rec.Code)
	}
	if _, err := real.Get(context.Background(), "u1"); err == nil {
		t.Error("decoy-mode write leaked into the real store")
	}
}
