// Package importer parses account-history exports into transactions.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ecaldwell/cipher/internal/transaction"
)

// Expected positional column layout of the history export:
// date, two unused columns, description, category, debit, credit.
const (
	colDate        = 0
	colDescription = 3
	colCategory    = 4
	colDebit       = 5
	colCredit      = 6

	minFields = 6
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
}

// Parse reads a positional CSV history export. Rows with fewer than six
// fields are silently skipped, as are rows whose date or amount cannot be
// parsed (headers, footers, separators).
func Parse(r io.Reader) ([]transaction.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var txs []transaction.Transaction

	for _, row := range rows {
		if len(row) < minFields {
			continue
		}

		date, ok := parseDate(cellValue(row, colDate))
		if !ok {
			continue
		}

		amount, ok := parseAmount(cellValue(row, colDebit), cellValue(row, colCredit))
		if !ok {
			continue
		}

		txs = append(txs, transaction.Transaction{
			Date:        date,
			Description: cellValue(row, colDescription),
			Category:    cellValue(row, colCategory),
			Amount:      amount,
		})
	}

	return txs, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount converts the split debit/credit columns into a single signed
// amount: a debit value is positive, a credit value is negative.
func parseAmount(debit, credit string) (float64, bool) {
	if debit != "" {
		v, err := strconv.ParseFloat(debit, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	if credit != "" {
		v, err := strconv.ParseFloat(credit, 64)
		if err != nil {
			return 0, false
		}
		return -v, true
	}

	return 0, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
