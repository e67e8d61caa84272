package domain

import (
	"encoding/json"
	"testing"
)

func TestOptDistinguishesAbsentNullValue(t *testing.T) {
	var payload struct {
		Description Opt[string] `json:"description"`
		Urgency     Opt[string] `json:"urgency"`
	}

	if err := json.Unmarshal([]byte(`{"description":null,"urgency":"High"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !payload.Description.Set || payload.Description.Valid {
		t.Fatalf("null field: Set=%v Valid=%v, want Set=true Valid=false",
			payload.Description.Set, payload.Description.Valid)
	}
	if payload.Description.Provided() {
		t.Fatal("null field must not count as provided")
	}

	if !payload.Urgency.Provided() || payload.Urgency.Value != "High" {
		t.Fatalf("value field: %+v, want provided High", payload.Urgency)
	}

	var absent struct {
		Deadline Opt[string] `json:"deadline"`
	}
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.Deadline.Set {
		t.Fatal("absent field must not be marked Set")
	}
}

func TestKindSpecLabels(t *testing.T) {
	if got := IncidentSpec.CapitalizedLabel(); got != "Incident" {
		t.Fatalf("incident label = %q", got)
	}
	if got := ServiceRequestSpec.CapitalizedLabel(); got != "Service request" {
		t.Fatalf("service request label = %q", got)
	}
	if SpecFor(KindServiceRequest).Table != "service_requests" {
		t.Fatal("kind lookup returned wrong descriptor")
	}
}
