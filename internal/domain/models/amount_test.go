package models

import (
	"encoding/json"
	"testing"
)

func TestAmountDecodesLooseValues(t *testing.T) {
	var trip struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	raw := `{"a": 12.5, "b": "3.25", "c": null, "d": "n/a"}`
	if err := json.Unmarshal([]byte(raw), &trip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trip.A != 12.5 || trip.B != 3.25 || trip.C != 0 || trip.D != 0 {
		t.Fatalf("unexpected amounts: %+v", trip)
	}
}

func TestAmountEncodesAsNumber(t *testing.T) {
	out, err := json.Marshal(Card{ID: "C1", Balance: 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := back["balance"].(float64); !ok {
		t.Fatalf("balance should encode as number, got %T", back["balance"])
	}
	if _, ok := back["issue_date"]; ok {
		t.Fatalf("empty issue_date should be omitted: %s", out)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	c := Card{ID: "C1"}
	c.Normalize()
	if c.Status != Unknown || c.IssueDate == "" {
		t.Fatalf("card defaults not applied: %+v", c)
	}

	cs := Case{CreatedDate: "2024-01-01T00:00:00"}
	cs.Normalize()
	if cs.LastUpdated != "2024-01-01T00:00:00" || cs.CaseStatus != Unknown {
		t.Fatalf("case defaults not applied: %+v", cs)
	}

	trip := Trip{ID: "T1", StartTime: "2024-01-01T08:00:00"}
	trip.Normalize()
	if !trip.Incomplete() {
		t.Fatalf("trip without end time should stay incomplete")
	}
}
