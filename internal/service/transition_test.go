package service

import (
	"testing"
	"time"

	"github.com/spec-kit/itsm-console/internal/domain"
)

var (
	testNow    = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	testOffset = 24 * time.Hour
)

func loggedIncident() *domain.Ticket {
	return &domain.Ticket{
		ID:      "t-inc-1",
		HumanID: "alice-1700000000000",
		Kind:    domain.KindIncident,
		Status:  domain.TicketStatusLogged,
		Incident: &domain.IncidentDetails{
			Summary:     "VPN down",
			Description: "cannot connect",
			Urgency:     "High",
		},
	}
}

func loggedRequest() *domain.Ticket {
	return &domain.Ticket{
		ID:      "t-req-1",
		HumanID: "bob-1700000000001",
		Kind:    domain.KindServiceRequest,
		Status:  domain.TicketStatusLogged,
		Request: &domain.RequestDetails{
			DBName:     "payments",
			IP:         "10.0.0.5",
			Permission: false,
			AdminName:  "carol",
		},
	}
}

func TestResolveTransition_NoOp(t *testing.T) {
	result := ResolveTransition(loggedIncident(), domain.TicketPatch{}, testNow, testOffset)
	if !result.Update.Empty() {
		t.Fatalf("expected empty update set, got %+v", result.Update)
	}
	if result.OnlyOpening {
		t.Fatal("no-op must not classify as opening")
	}
}

func TestResolveTransition_UnchangedValuesAreNoOp(t *testing.T) {
	current := loggedIncident()
	patch := domain.TicketPatch{
		Description: domain.OptOf(current.Incident.Description),
		Urgency:     domain.OptOf(current.Incident.Urgency),
		Status:      domain.OptOf(current.Status),
	}
	result := ResolveTransition(current, patch, testNow, testOffset)
	if !result.Update.Empty() {
		t.Fatalf("resubmitting current values must be a no-op, got %+v", result.Update)
	}
}

func TestResolveTransition_PureOpening(t *testing.T) {
	patch := domain.TicketPatch{Status: domain.OptOf(domain.TicketStatusOpened)}
	result := ResolveTransition(loggedIncident(), patch, testNow, testOffset)

	if !result.OnlyOpening {
		t.Fatal("status-only logged->opened must classify as opening")
	}
	if result.Update.Status == nil || *result.Update.Status != domain.TicketStatusOpened {
		t.Fatalf("expected status update, got %+v", result.Update)
	}
	if !result.Update.SetDeadline || result.Update.Deadline == nil {
		t.Fatal("first exit from logged must assign a deadline")
	}
	if want := testNow.Add(testOffset); !result.Update.Deadline.Equal(want) {
		t.Fatalf("deadline = %v, want %v", result.Update.Deadline, want)
	}
}

func TestResolveTransition_OpeningWithFirstDeadlineStaysOpening(t *testing.T) {
	deadline := testNow.Add(48 * time.Hour)
	patch := domain.TicketPatch{
		Status:   domain.OptOf(domain.TicketStatusOpened),
		Deadline: domain.OptOf(deadline),
	}
	result := ResolveTransition(loggedIncident(), patch, testNow, testOffset)

	if !result.OnlyOpening {
		t.Fatal("setting a first deadline must not break the opening classification")
	}
	if result.Update.Deadline == nil || !result.Update.Deadline.Equal(deadline) {
		t.Fatalf("expected explicit deadline %v, got %v", deadline, result.Update.Deadline)
	}
}

func TestResolveTransition_FieldEditBreaksOpening(t *testing.T) {
	patch := domain.TicketPatch{
		Status:      domain.OptOf(domain.TicketStatusOpened),
		Description: domain.OptOf("now with details"),
	}
	result := ResolveTransition(loggedIncident(), patch, testNow, testOffset)

	if result.OnlyOpening {
		t.Fatal("a field edit alongside the status flip is a substantive update")
	}
	if result.Update.Description == nil || *result.Update.Description != "now with details" {
		t.Fatalf("expected description in update set, got %+v", result.Update)
	}
}

func TestResolveTransition_DeadlineChangeBreaksOpening(t *testing.T) {
	current := loggedIncident()
	existing := testNow.Add(12 * time.Hour)
	current.Deadline = &existing

	patch := domain.TicketPatch{
		Status:   domain.OptOf(domain.TicketStatusOpened),
		Deadline: domain.OptOf(testNow.Add(72 * time.Hour)),
	}
	result := ResolveTransition(current, patch, testNow, testOffset)

	if result.OnlyOpening {
		t.Fatal("moving an existing deadline is a substantive update")
	}
	if !result.Update.SetDeadline {
		t.Fatal("changed deadline must enter the update set")
	}
}

func TestResolveTransition_SameDeadlineIsNotAChange(t *testing.T) {
	current := loggedIncident()
	existing := testNow.Add(12 * time.Hour)
	current.Deadline = &existing

	patch := domain.TicketPatch{
		Status:   domain.OptOf(domain.TicketStatusOpened),
		Deadline: domain.OptOf(existing),
	}
	result := ResolveTransition(current, patch, testNow, testOffset)

	if !result.OnlyOpening {
		t.Fatal("resubmitting the current deadline must not break the opening classification")
	}
	if result.Update.SetDeadline {
		t.Fatal("unchanged deadline must stay out of the update set")
	}
}

func TestResolveTransition_ExplicitNullClearsDeadline(t *testing.T) {
	current := loggedIncident()
	existing := testNow.Add(12 * time.Hour)
	current.Deadline = &existing

	patch := domain.TicketPatch{
		Status:   domain.OptOf(domain.TicketStatusOpened),
		Deadline: domain.Opt[time.Time]{Set: true}, // explicit null
	}
	result := ResolveTransition(current, patch, testNow, testOffset)

	if !result.Update.SetDeadline || result.Update.Deadline != nil {
		t.Fatalf("explicit null must write NULL, got SetDeadline=%v Deadline=%v",
			result.Update.SetDeadline, result.Update.Deadline)
	}
	if result.OnlyOpening {
		t.Fatal("clearing an existing deadline is a substantive update")
	}
}

func TestResolveTransition_ExplicitNullWithoutDeadlineIsNoOpinion(t *testing.T) {
	patch := domain.TicketPatch{
		Deadline: domain.Opt[time.Time]{Set: true}, // explicit null
	}
	result := ResolveTransition(loggedIncident(), patch, testNow, testOffset)
	if !result.Update.Empty() {
		t.Fatalf("null deadline with nothing to clear must be a no-op, got %+v", result.Update)
	}
}

func TestResolveTransition_FallbackNeverTurnsNoOpIntoWrite(t *testing.T) {
	// nil deadline, no status change, no field change: nothing to persist
	current := loggedIncident()
	patch := domain.TicketPatch{Status: domain.OptOf(domain.TicketStatusLogged)}
	result := ResolveTransition(current, patch, testNow, testOffset)
	if !result.Update.Empty() {
		t.Fatalf("deadline fallback must not fire on an empty update set, got %+v", result.Update)
	}
}

func TestResolveTransition_NoFallbackWhenNotLeavingLogged(t *testing.T) {
	current := loggedIncident()
	current.Status = domain.TicketStatusOpened

	patch := domain.TicketPatch{Status: domain.OptOf(domain.TicketStatusResolved)}
	result := ResolveTransition(current, patch, testNow, testOffset)

	if result.Update.SetDeadline {
		t.Fatal("fallback deadline only applies on the first exit from logged")
	}
	if result.Update.Status == nil || *result.Update.Status != domain.TicketStatusResolved {
		t.Fatalf("expected status update, got %+v", result.Update)
	}
}

func TestResolveTransition_ReopeningIsNotOpening(t *testing.T) {
	current := loggedIncident()
	current.Status = domain.TicketStatusResolved

	patch := domain.TicketPatch{Status: domain.OptOf(domain.TicketStatusOpened)}
	result := ResolveTransition(current, patch, testNow, testOffset)

	if result.OnlyOpening {
		t.Fatal("resolved->opened is a reopen, not the logged->opened visibility flip")
	}
}

func TestResolveTransition_NullFieldIsNoOpinion(t *testing.T) {
	patch := domain.TicketPatch{
		Description: domain.Opt[string]{Set: true}, // explicit null
		Status:      domain.OptOf(domain.TicketStatusOpened),
	}
	result := ResolveTransition(loggedIncident(), patch, testNow, testOffset)

	if result.Update.Description != nil {
		t.Fatal("a null field must not enter the update set")
	}
	if !result.OnlyOpening {
		t.Fatal("a null field must not break the opening classification")
	}
}

func TestResolveTransition_ServiceRequestFields(t *testing.T) {
	current := loggedRequest()
	patch := domain.TicketPatch{
		DBName:     domain.OptOf("payments"), // unchanged
		IP:         domain.OptOf("10.0.0.9"),
		Permission: domain.OptOf(true),
		AdminName:  domain.OptOf("carol"), // unchanged
	}
	result := ResolveTransition(current, patch, testNow, testOffset)

	if result.Update.DBName != nil || result.Update.AdminName != nil {
		t.Fatalf("unchanged fields must stay out of the update set, got %+v", result.Update)
	}
	if result.Update.IP == nil || *result.Update.IP != "10.0.0.9" {
		t.Fatalf("expected ip update, got %+v", result.Update)
	}
	if result.Update.Permission == nil || !*result.Update.Permission {
		t.Fatalf("expected permission update, got %+v", result.Update)
	}
	if result.Update.SetDeadline {
		t.Fatal("field-only edits must not assign a deadline")
	}
}

func TestResolveTransition_IncidentPatchIgnoresRequestFields(t *testing.T) {
	patch := domain.TicketPatch{
		DBName: domain.OptOf("other"),
		IP:     domain.OptOf("192.168.0.1"),
	}
	result := ResolveTransition(loggedIncident(), patch, testNow, testOffset)
	if !result.Update.Empty() {
		t.Fatalf("request-only fields must be ignored for incidents, got %+v", result.Update)
	}
}
