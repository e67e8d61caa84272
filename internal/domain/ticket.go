package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusLogged   TicketStatus = "logged"
	TicketStatusOpened   TicketStatus = "opened"
	TicketStatusResolved TicketStatus = "resolved"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusLogged, TicketStatusOpened, TicketStatusResolved:
		return true
	}
	return false
}

// TicketKind distinguishes the two ticket variants.
type TicketKind string

const (
	KindIncident       TicketKind = "incident"
	KindServiceRequest TicketKind = "serviceRequest"
)

// DefaultUrgency is applied to incidents created without one.
const DefaultUrgency = "Medium"

// Ticket is the aggregate for incidents and service requests. Shared
// lifecycle fields live here; variant fields sit in exactly one of the
// detail structs, selected by Kind.
type Ticket struct {
	ID             string
	HumanID        string
	Kind           TicketKind
	Status         TicketStatus
	TenantID       string
	CreatedBy      string
	CreatedByEmail string
	Deadline       *time.Time
	ActionTaken    string
	ActionedBy     string
	ActionedAt     *time.Time
	Notes          []Note
	Incident       *IncidentDetails
	Request        *RequestDetails
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IncidentDetails holds incident-only fields.
type IncidentDetails struct {
	Summary     string
	Description string
	Urgency     string
}

// RequestDetails holds service-request-only fields.
type RequestDetails struct {
	DBName         string
	IP             string
	Permission     bool
	AdminName      string
	AdditionalInfo string
}

// Subject returns the display name used in notification messages:
// the summary for incidents, the database name for service requests.
func (t *Ticket) Subject() string {
	switch t.Kind {
	case KindIncident:
		if t.Incident != nil {
			return t.Incident.Summary
		}
	case KindServiceRequest:
		if t.Request != nil {
			return t.Request.DBName
		}
	}
	return ""
}

// KindSpec describes how generic ticket code treats one variant: storage
// table, display label and the notification type tags it emits.
type KindSpec struct {
	Kind        TicketKind
	Table       string
	Label       string
	CreatedType string
	OpenedType  string
	UpdatedType string
}

var (
	IncidentSpec = KindSpec{
		Kind:        KindIncident,
		Table:       "incidents",
		Label:       "incident",
		CreatedType: "newIncident",
		OpenedType:  "incidentOpened",
		UpdatedType: "incidentUpdated",
	}
	ServiceRequestSpec = KindSpec{
		Kind:        KindServiceRequest,
		Table:       "service_requests",
		Label:       "service request",
		CreatedType: "newServiceRequest",
		OpenedType:  "serviceRequestOpened",
		UpdatedType: "serviceRequestUpdated",
	}
)

// SpecFor returns the descriptor for a kind.
func SpecFor(kind TicketKind) KindSpec {
	if kind == KindServiceRequest {
		return ServiceRequestSpec
	}
	return IncidentSpec
}

// CapitalizedLabel renders the label for sentence-initial use,
// e.g. "Incident" / "Service request".
func (k KindSpec) CapitalizedLabel() string {
	if k.Label == "" {
		return ""
	}
	return strings.ToUpper(k.Label[:1]) + k.Label[1:]
}
