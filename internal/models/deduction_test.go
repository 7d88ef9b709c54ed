package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// Clients parse amount fields as numerics; quoted amounts would break them.
func TestAmountsMarshalAsJSONNumbers(t *testing.T) {
	entry := DeductionEntry{
		Amount:    decimal.RequireFromString("350.25"),
		PartyName: "Shree Constructions",
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"amount":350.25`) {
		t.Errorf("amount not a JSON number: %s", raw)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, ok := decoded["amount"].(float64); !ok || got != 350.25 {
		t.Errorf("amount = %v (%T), want float64 350.25", decoded["amount"], decoded["amount"])
	}
}

// Quoted amounts in incoming payloads still decode; only output changes shape.
func TestAmountsUnmarshalFromStrings(t *testing.T) {
	var entry DeductionEntry
	if err := json.Unmarshal([]byte(`{"amount":"99.5","partyName":"x"}`), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.Amount.String() != "99.5" {
		t.Errorf("amount = %s, want 99.5", entry.Amount)
	}
}
