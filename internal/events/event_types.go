package events

import (
	"time"

	"github.com/spec-kit/itsm-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketNoted    EventType = "ticket_note_added"
	EventTicketEdited   EventType = "ticket_edited"
	EventTicketResolved EventType = "ticket_resolved"
)

// Event represents a ticket lifecycle event emitted by the ticket service.
type Event struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Kind      domain.TicketKind `json:"kind"`
	TicketID  string            `json:"ticket_id"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   interface{}       `json:"payload"`
}

// TicketCreatedPayload carries the fields the dispatcher needs to route
// and render a creation notice.
type TicketCreatedPayload struct {
	Subject       string `json:"subject"`
	ReporterEmail string `json:"reporter_email,omitempty"`
}

// TicketNotedPayload describes an appended note and its author's role.
type TicketNotedPayload struct {
	Subject string      `json:"subject"`
	Role    string      `json:"role,omitempty"`
	Note    domain.Note `json:"note"`
}

// TicketEditedPayload describes a persisted edit. OnlyOpening marks the
// pure logged-to-opened visibility transition; CreatedBy gates whether a
// notice is addressed at all.
type TicketEditedPayload struct {
	Subject     string `json:"subject"`
	CreatedBy   string `json:"created_by,omitempty"`
	ActorEmail  string `json:"actor_email,omitempty"`
	OnlyOpening bool   `json:"only_opening"`
}

// TicketResolvedPayload describes a resolution.
type TicketResolvedPayload struct {
	Subject    string `json:"subject"`
	ActorEmail string `json:"actor_email,omitempty"`
}
