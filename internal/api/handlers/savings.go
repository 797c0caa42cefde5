package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/api/middleware"
	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/insight"
	"github.com/ecaldwell/cipher/internal/savings"
)

// SavingsHandler exposes the savings category CRUD. Each request loads the
// account's current list, applies one mutation through a tracker, and
// relies on the tracker's flush to persist. Last writer wins across
// devices.
type SavingsHandler struct {
	store      docstore.Store
	decoyStore docstore.Store
	isDecoy    func() bool
	log        zerolog.Logger
}

// NewSavingsHandler creates a new savings handler.
func NewSavingsHandler(store, decoyStore docstore.Store, isDecoy func() bool, log zerolog.Logger) *SavingsHandler {
	return &SavingsHandler{
		store:      store,
		decoyStore: decoyStore,
		isDecoy:    isDecoy,
		log:        log,
	}
}

// trackerFor loads the account's categories into a working copy.
func (h *SavingsHandler) trackerFor(r *http.Request, uid string) (*savings.Tracker, error) {
	store := h.store
	if h.isDecoy() {
		store = h.decoyStore
	}

	doc, err := store.Get(r.Context(), uid)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, err
	}

	var initial []savings.Category
	if doc != nil {
		initial = doc.Categories
	}

	return savings.NewTracker(uid, store, initial), nil
}

type categoryResponse struct {
	savings.Category
	Progress float64 `json:"progress"`
}

func toResponse(cats []savings.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Category: c, Progress: c.Progress()})
	}
	return out
}

// List handles GET /api/savings?user_id=...
func (h *SavingsHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("user_id")
	if uid == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracker, err := h.trackerFor(r, uid)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load savings categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings categories")
		return
	}

	cats := tracker.Categories()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": toResponse(cats),
		"count":      len(cats),
	})
}

// Create handles POST /api/savings
func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string  `json:"user_id"`
		Name       string  `json:"name"`
		Location   string  `json:"location"`
		GoalAmount float64 `json:"goal_amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracker, err := h.trackerFor(r, req.UserID)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings categories")
		return
	}

	cat, err := tracker.Add(r.Context(), req.Name, req.Location, req.GoalAmount)
	if err != nil {
		middleware.WriteError(w, savingsStatus(err), err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, categoryResponse{Category: cat, Progress: cat.Progress()})
}

// Update handles PATCH /api/savings/{id}
func (h *SavingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		UserID     string  `json:"user_id"`
		Name       string  `json:"name"`
		Location   string  `json:"location"`
		GoalAmount float64 `json:"goal_amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracker, err := h.trackerFor(r, req.UserID)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings categories")
		return
	}

	if err := tracker.Edit(r.Context(), id, req.Name, req.Location, req.GoalAmount); err != nil {
		middleware.WriteError(w, savingsStatus(err), err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Delete handles DELETE /api/savings/{id}?user_id=...
func (h *SavingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uid := r.URL.Query().Get("user_id")
	if uid == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracker, err := h.trackerFor(r, uid)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings categories")
		return
	}

	if err := tracker.Delete(r.Context(), id); err != nil {
		middleware.WriteError(w, savingsStatus(err), err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Adjust handles POST /api/savings/{id}/adjust — quick add or subtract.
func (h *SavingsHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		UserID string  `json:"user_id"`
		Delta  float64 `json:"delta"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracker, err := h.trackerFor(r, req.UserID)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings categories")
		return
	}

	cat, err := tracker.Adjust(r.Context(), id, req.Delta)
	if err != nil {
		middleware.WriteError(w, savingsStatus(err), err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, categoryResponse{Category: cat, Progress: cat.Progress()})
}

// FromPlan handles POST /api/savings/plan — materializes an AI-generated
// plan into categories.
func (h *SavingsHandler) FromPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string                `json:"user_id"`
		Plan   *insight.PlanDocument `json:"plan"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	tracker, err := h.trackerFor(r, req.UserID)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load savings categories")
		return
	}

	added, err := tracker.FromPlan(r.Context(), req.Plan)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to persist plan categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save categories")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"added": toResponse(added),
		"count": len(added),
	})
}

func savingsStatus(err error) int {
	switch {
	case errors.Is(err, savings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, savings.ErrEmptyName), errors.Is(err, savings.ErrInvalidGoal):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
