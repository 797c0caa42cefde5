package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/api/middleware"
	"github.com/ecaldwell/cipher/internal/bank"
	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/importer"
	"github.com/ecaldwell/cipher/internal/transaction"
)

// maxImportBytes bounds uploaded CSV statements.
const maxImportBytes = 10 << 20

// TransactionsHandler handles transaction sync, import, and retrieval.
// Decoy sessions are served from the decoy store and never touch the real
// account document.
type TransactionsHandler struct {
	store      docstore.Store
	decoyStore docstore.Store
	bank       *bank.Client
	isDecoy    func() bool
	log        zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler. decoyStore is
// pre-seeded with the fabricated dataset; isDecoy reports whether the
// current session runs in decoy mode.
func NewTransactionsHandler(store, decoyStore docstore.Store, bankClient *bank.Client, isDecoy func() bool, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store:      store,
		decoyStore: decoyStore,
		bank:       bankClient,
		isDecoy:    isDecoy,
		log:        log,
	}
}

func (h *TransactionsHandler) storeFor() docstore.Store {
	if h.isDecoy() {
		return h.decoyStore
	}
	return h.store
}

// List handles GET /api/transactions?user_id=...
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("user_id")
	if uid == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	doc, err := h.storeFor().Get(r.Context(), uid)
	if errors.Is(err, docstore.ErrNotFound) {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"transactions": []interface{}{},
			"count":        0,
		})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": doc.TransactionData,
		"count":        len(doc.TransactionData),
	})
}

// Sync handles POST /api/transactions/sync — pulls the user's purchase and
// deposit history from the bank API and stores it.
func (h *TransactionsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"user_id"`
		CustomerID string `json:"customer_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.CustomerID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Missing required fields: user_id, customer_id")
		return
	}

	// Decoy sessions never hit the bank: the pre-seeded dataset is the
	// whole world.
	if h.isDecoy() {
		doc, err := h.decoyStore.Get(r.Context(), req.UserID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   len(doc.TransactionData),
		})
		return
	}

	txs, err := h.bank.FetchTransactions(r.Context(), req.CustomerID)
	if err != nil {
		h.log.Error().Err(err).Str("customer_id", req.CustomerID).Msg("Bank sync failed")
		middleware.WriteError(w, http.StatusBadGateway, "Could not fetch transactions from the bank")
		return
	}

	if err := h.store.SaveTransactions(r.Context(), req.UserID, txs); err != nil {
		h.log.Error().Err(err).Msg("Failed to save synced transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(txs),
	})
}

// Import handles POST /api/transactions/import. The statement arrives
// either as a raw CSV body or, with a JSON body, as a GCS object reference
// {"bucket": ..., "object": ...}.
func (h *TransactionsHandler) Import(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("user_id")
	if uid == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if h.isDecoy() {
		// Pretend success; real data must stay untouched.
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"imported": 0,
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	var txs []transaction.Transaction

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var ref struct {
			Bucket string `json:"bucket"`
			Object string `json:"object"`
		}
		if err := json.Unmarshal(body, &ref); err != nil || ref.Bucket == "" || ref.Object == "" {
			middleware.WriteError(w, http.StatusBadRequest, `Expected {"bucket", "object"}`)
			return
		}

		txs, err = importer.ParseGCS(r.Context(), ref.Bucket, ref.Object)
		if err != nil {
			h.log.Error().Err(err).Str("object", ref.Object).Msg("GCS import failed")
			middleware.WriteError(w, http.StatusBadGateway, "Could not fetch statement from storage")
			return
		}
	} else {
		txs, err = importer.Parse(bytes.NewReader(body))
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Could not parse CSV statement")
			return
		}
	}

	if err := h.store.SaveTransactions(r.Context(), uid, txs); err != nil {
		h.log.Error().Err(err).Msg("Failed to save imported transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"imported": len(txs),
	})
}
