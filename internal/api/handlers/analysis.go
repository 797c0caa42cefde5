package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/api/middleware"
	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/jobs"
)

// AnalysisHandler enqueues analysis runs and serves their status.
type AnalysisHandler struct {
	publisher  jobs.Publisher
	jobStore   jobs.JobStore
	store      docstore.Store
	decoyStore docstore.Store
	isDecoy    func() bool
	log        zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(publisher jobs.Publisher, jobStore jobs.JobStore, store, decoyStore docstore.Store, isDecoy func() bool, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		publisher:  publisher,
		jobStore:   jobStore,
		store:      store,
		decoyStore: decoyStore,
		isDecoy:    isDecoy,
		log:        log,
	}
}

// Run handles POST /api/analysis/run — loads the account's transactions and
// enqueues the two-call model run.
func (h *AnalysisHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"user_id"`
		Location   string `json:"location"`
		Dependents int    `json:"dependents"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	store := h.store
	if h.isDecoy() {
		store = h.decoyStore
	}

	doc, err := store.Get(r.Context(), req.UserID)
	if errors.Is(err, docstore.ErrNotFound) {
		middleware.WriteError(w, http.StatusBadRequest, "No transaction data to analyze")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions for analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	job := &jobs.AnalysisJob{
		UserID:       req.UserID,
		Transactions: doc.TransactionData,
		Location:     req.Location,
		Dependents:   req.Dependents,
	}

	if err := h.publisher.PublishAnalysis(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue analysis")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to start analysis")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.JobID,
		"status": job.Status,
	})
}

// Get handles GET /api/analysis/{jobID} — poll for the run's status and,
// once completed, its result.
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	job, err := h.jobStore.GetJob(r.Context(), jobID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			middleware.WriteError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to load job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}
