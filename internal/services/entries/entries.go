// Package entries normalizes deduction entry lists arriving from clients.
// Field staff submit either a JSON body (structured arrays) or a multipart
// form whose entry fields are serialized-text arrays; both funnel through
// Parse into the same shape.
package entries

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"deduction-reconciliation-backend/internal/models"
)

type rawEntry struct {
	Amount    json.RawMessage `json:"amount"`
	PartyName string          `json:"partyName"`
	PAN       string          `json:"pan"`
}

// Parse accepts an entry-list payload as either a JSON array or a JSON string
// containing a serialized array, and returns the normalized entries. Amounts
// are coerced to decimal; missing or unparseable amounts become zero rather
// than failing the record. Anything else yields an empty list.
func Parse(payload []byte) []models.DeductionEntry {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}

	// Serialized-text form: a JSON string whose contents are the array.
	if payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil
		}
		payload = []byte(inner)
	}

	var raw []rawEntry
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil
	}

	out := make([]models.DeductionEntry, 0, len(raw))
	for _, e := range raw {
		out = append(out, models.DeductionEntry{
			Amount:    coerceAmount(e.Amount),
			PartyName: e.PartyName,
			PAN:       e.PAN,
		})
	}
	return out
}

// coerceAmount reads a JSON number or a numeric string; anything else is zero.
func coerceAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Sum totals the amounts of one entry list.
func Sum(list []models.DeductionEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range list {
		total = total.Add(e.Amount)
	}
	return total
}

// SumAll totals every entry across all category buckets of a record.
func SumAll(r *models.DeductionRecord) decimal.Decimal {
	total := decimal.Zero
	for _, c := range models.Categories() {
		total = total.Add(Sum(r.EntriesFor(c)))
	}
	return total
}

// ResolveTotal applies the total-amount precedence: an array-shaped client
// total wins with its first element, then a scalar client total, then the
// recomputed entry sum. The client-supplied figure is trusted first because
// it matches the physical receipt; the recompute is only a fallback.
func ResolveTotal(raw []byte, computed decimal.Decimal) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return computed
	}

	if raw[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
			return computed
		}
		return coerceAmount(arr[0])
	}

	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return computed
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return computed
	}
	return d
}
