package deduction

import (
	"github.com/shopspring/decimal"

	"deduction-reconciliation-backend/internal/models"
	"deduction-reconciliation-backend/internal/services/entries"
)

// Summary holds per-category subtotals plus the grand total over a filtered
// set of records. Subtotals sum the embedded entry amounts; the grand total
// sums each record's stored totalAmount, which may legitimately diverge from
// the entry sums under the trust-client-first rule.
type Summary struct {
	TotalGST       decimal.Decimal `json:"totalGST"`
	TotalRoyalty   decimal.Decimal `json:"totalRoyalty"`
	TotalIT        decimal.Decimal `json:"totalIT"`
	TotalKamgaar   decimal.Decimal `json:"totalKamgaar"`
	TotalInsurance decimal.Decimal `json:"totalInsurance"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
}

// Summarize aggregates in decimal arithmetic so large sets stay exact.
// An empty input yields all zeros.
func Summarize(records []models.DeductionRecord) Summary {
	byCategory := make(map[models.Category]decimal.Decimal, len(models.Categories()))
	for _, c := range models.Categories() {
		byCategory[c] = decimal.Zero
	}
	grand := decimal.Zero

	for i := range records {
		r := &records[i]
		for _, c := range models.Categories() {
			byCategory[c] = byCategory[c].Add(entries.Sum(r.EntriesFor(c)))
		}
		grand = grand.Add(r.TotalAmount)
	}

	return Summary{
		TotalGST:       byCategory[models.CategoryGST],
		TotalRoyalty:   byCategory[models.CategoryRoyalty],
		TotalIT:        byCategory[models.CategoryIT],
		TotalKamgaar:   byCategory[models.CategoryKamgaar],
		TotalInsurance: byCategory[models.CategoryInsurance],
		GrandTotal:     grand,
	}
}
