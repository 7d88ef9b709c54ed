package entries

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"deduction-reconciliation-backend/internal/models"
)

func TestParse_StructuredArray(t *testing.T) {
	got := Parse([]byte(`[{"amount":100,"partyName":"Sharma Traders"},{"amount":"250.50","partyName":"Patil & Sons","pan":"ABCDE1234F"}]`))
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if !got[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("entry 0 amount = %s, want 100", got[0].Amount)
	}
	if !got[1].Amount.Equal(decimal.RequireFromString("250.50")) {
		t.Errorf("entry 1 amount = %s, want 250.50", got[1].Amount)
	}
	if got[1].PAN != "ABCDE1234F" {
		t.Errorf("entry 1 pan = %q", got[1].PAN)
	}
}

func TestParse_SerializedTextPayload(t *testing.T) {
	// A multipart form field carries the array as text; a JSON body may carry
	// the same text wrapped in a JSON string.
	cases := []struct {
		name    string
		payload string
	}{
		{"form text", `[{"amount":75,"partyName":"X"}]`},
		{"quoted text", `"[{\"amount\":75,\"partyName\":\"X\"}]"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse([]byte(tc.payload))
			if len(got) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(got))
			}
			if !got[0].Amount.Equal(decimal.NewFromInt(75)) {
				t.Errorf("amount = %s, want 75", got[0].Amount)
			}
		})
	}
}

func TestParse_BadAmountsDefaultToZero(t *testing.T) {
	got := Parse([]byte(`[{"amount":"not-a-number","partyName":"A"},{"partyName":"B"},{"amount":null,"partyName":"C"}]`))
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, e := range got {
		if !e.Amount.IsZero() {
			t.Errorf("entry %d amount = %s, want 0", i, e.Amount)
		}
	}
}

func TestParse_GarbagePayloads(t *testing.T) {
	for _, payload := range []string{"", "null", "not json", `{"amount":5}`, `"also not an array"`} {
		if got := Parse([]byte(payload)); len(got) != 0 {
			t.Errorf("Parse(%q) = %d entries, want 0", payload, len(got))
		}
	}
}

func TestResolveTotal_Precedence(t *testing.T) {
	computed := decimal.NewFromInt(350)
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"array total wins with first element", `[500, 999]`, "500"},
		{"array of strings", `["420.75"]`, "420.75"},
		{"scalar total", `275.25`, "275.25"},
		{"string scalar total", `"275.25"`, "275.25"},
		{"absent falls back to computed", ``, "350"},
		{"null falls back to computed", `null`, "350"},
		{"empty array falls back to computed", `[]`, "350"},
		{"garbage scalar falls back to computed", `"abc"`, "350"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveTotal(json.RawMessage(tc.raw), computed)
			if got.String() != tc.want {
				t.Errorf("ResolveTotal(%q) = %s, want %s", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSumAll_AcrossCategories(t *testing.T) {
	r := &models.DeductionRecord{}
	r.SetEntriesFor(models.CategoryGST, []models.DeductionEntry{
		{Amount: decimal.NewFromInt(100)},
		{Amount: decimal.NewFromInt(250)},
	})
	r.SetEntriesFor(models.CategoryKamgaar, []models.DeductionEntry{
		{Amount: decimal.RequireFromString("12.50")},
	})

	if got := SumAll(r); got.String() != "362.5" {
		t.Errorf("SumAll = %s, want 362.5", got)
	}
}

func TestSum_NoFloatingDrift(t *testing.T) {
	tenth := decimal.RequireFromString("0.1")
	list := make([]models.DeductionEntry, 1000)
	for i := range list {
		list[i] = models.DeductionEntry{Amount: tenth}
	}
	if got := Sum(list); got.String() != "100" {
		t.Errorf("sum of 1000 x 0.1 = %s, want exactly 100", got)
	}
}
