package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/docstore"
	"github.com/ecaldwell/cipher/internal/transaction"
)

func TestTransactions_ImportCSV(t *testing.T) {
	store := docstore.NewMemory()
	h := NewTransactionsHandler(store, docstore.NewMemory(), nil, func() bool { return false }, zerolog.Nop())

	csv := strings.Join([]string{
		"2024-01-05,x,x,Grocery Store,Groceries,45.32,",
		"2024-01-06,x,x,Payroll,Income,,2150.00",
		"short,row",
	}, "\n")

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/import?user_id=u1", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Import status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Imported != 2 {
		t.Errorf("imported = %d, want 2 (short row skipped)", resp.Imported)
	}

	doc, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(doc.TransactionData) != 2 {
		t.Fatalf("stored %d transactions, want 2", len(doc.TransactionData))
	}
	if doc.TransactionData[0].Amount != 45.32 {
		t.Errorf("debit amount = %v, want 45.32", doc.TransactionData[0].Amount)
	}
	if doc.TransactionData[1].Amount != -2150.00 {
		t.Errorf("credit amount = %v, want -2150.00", doc.TransactionData[1].Amount)
	}
}

func TestTransactions_ImportRequiresUserID(t *testing.T) {
	h := NewTransactionsHandler(docstore.NewMemory(), docstore.NewMemory(), nil, func() bool { return false }, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/import", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Import without user_id status = %d, want 400", rec.Code)
	}
}

func TestTransactions_ImportInDecoyModeTouchesNothing(t *testing.T) {
	store := docstore.NewMemory()
	h := NewTransactionsHandler(store, docstore.NewMemory(), nil, func() bool { return true }, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/import?user_id=u1", strings.NewReader("2024-01-05,x,x,A,B,1.00,"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Import status = %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), "u1"); err == nil {
		t.Error("decoy-mode import wrote to the real store")
	}
}

func TestTransactions_ListServesDecoyData(t *testing.T) {
	real := docstore.NewMemory()
	decoy := docstore.NewMemory()
	if err := decoy.SaveTransactions(context.Background(), "u1", []transaction.Transaction{
		{Description: "Payroll Deposit", Amount: 2150},
	}); err != nil {
		t.Fatal(err)
	}

	h := NewTransactionsHandler(real, decoy, nil, func() bool { return true }, zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/api/transactions", h.List)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?user_id=u1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("decoy list count = %d, want 1", resp.Count)
	}
}

func TestTransactions_ListEmptyAccount(t *testing.T) {
	h := NewTransactionsHandler(docstore.NewMemory(), docstore.NewMemory(), nil, func() bool { return false }, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?user_id=ghost", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("List on empty account status = %d, want 200 with empty list", rec.Code)
	}
}
