package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/itsm-console/internal/domain"
)

// CreateIncidentRequest payload.
type CreateIncidentRequest struct {
	IncidentID    string `json:"incidentId"`
	Summary       string `json:"summary"`
	Description   string `json:"description"`
	Urgency       string `json:"urgency"`
	TenantID      string `json:"tenantId"`
	CreatedBy     string `json:"createdBy"`
	ReporterEmail string `json:"reporterEmail"`
}

// CreateServiceRequestRequest payload.
type CreateServiceRequestRequest struct {
	RequestID      string `json:"requestId"`
	DBName         string `json:"dbName"`
	IP             string `json:"ip"`
	Permission     bool   `json:"permission"`
	AdminName      string `json:"adminName"`
	AdditionalInfo string `json:"additionalInfo"`
	TenantID       string `json:"tenantId"`
	CreatedBy      string `json:"createdBy"`
	ReporterEmail  string `json:"reporterEmail"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Text         string `json:"text"`
	AddedBy      string `json:"addedBy"`
	AddedByEmail string `json:"addedByEmail"`
	Role         string `json:"role"`
}

// EditTicketRequest is a partial update. Optional fields distinguish
// absent from null, which the transition engine's diffing depends on.
type EditTicketRequest struct {
	Description  domain.Opt[string]    `json:"description"`
	Urgency      domain.Opt[string]    `json:"urgency"`
	DBName       domain.Opt[string]    `json:"dbName"`
	AdminName    domain.Opt[string]    `json:"adminName"`
	IP           domain.Opt[string]    `json:"ip"`
	Permission   domain.Opt[bool]      `json:"permission"`
	Status       domain.Opt[string]    `json:"status"`
	Deadline     domain.Opt[time.Time] `json:"deadline"`
	AddedByEmail string                `json:"addedByEmail"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Action       string `json:"action"`
	AddedByEmail string `json:"addedByEmail"`
}

// TicketResponse renders a full ticket. Kind-specific fields are
// pointers so each variant only serializes its own set; the human id
// keeps its kind-specific wire name.
type TicketResponse struct {
	ID             string         `json:"id"`
	IncidentID     string         `json:"incidentId,omitempty"`
	RequestID      string         `json:"requestId,omitempty"`
	Status         string         `json:"status"`
	TenantID       string         `json:"tenantId,omitempty"`
	CreatedBy      string         `json:"createdBy,omitempty"`
	CreatedByEmail string         `json:"createdByEmail,omitempty"`
	Summary        *string        `json:"summary,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Urgency        *string        `json:"urgency,omitempty"`
	DBName         *string        `json:"dbName,omitempty"`
	IP             *string        `json:"ip,omitempty"`
	Permission     *bool          `json:"permission,omitempty"`
	AdminName      *string        `json:"adminName,omitempty"`
	AdditionalInfo *string        `json:"additionalInfo,omitempty"`
	Deadline       *time.Time     `json:"deadline"`
	ActionTaken    string         `json:"actionTaken,omitempty"`
	ActionedBy     string         `json:"actionedBy,omitempty"`
	ActionedAt     *time.Time     `json:"actionedAt,omitempty"`
	Notes          []NoteResponse `json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// NoteResponse renders a normalized note: author identity defaulted and
// the timestamp serialized as an ISO datetime string.
type NoteResponse struct {
	Text         string `json:"text"`
	AddedBy      string `json:"addedBy"`
	AddedByEmail string `json:"addedByEmail"`
	AddedAt      string `json:"addedAt"`
}

// AckResponse is a plain confirmation message.
type AckResponse struct {
	Message string `json:"message"`
}

// FromTicket maps a domain ticket onto the wire shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:             ticket.ID,
		Status:         string(ticket.Status),
		TenantID:       ticket.TenantID,
		CreatedBy:      ticket.CreatedBy,
		CreatedByEmail: ticket.CreatedByEmail,
		Deadline:       ticket.Deadline,
		ActionTaken:    ticket.ActionTaken,
		ActionedBy:     ticket.ActionedBy,
		ActionedAt:     ticket.ActionedAt,
		Notes:          FromNotes(ticket.Notes),
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}

	switch ticket.Kind {
	case domain.KindServiceRequest:
		resp.RequestID = ticket.HumanID
		if req := ticket.Request; req != nil {
			resp.DBName = &req.DBName
			resp.IP = &req.IP
			resp.Permission = &req.Permission
			resp.AdminName = &req.AdminName
			resp.AdditionalInfo = &req.AdditionalInfo
		}
	default:
		resp.IncidentID = ticket.HumanID
		if inc := ticket.Incident; inc != nil {
			resp.Summary = &inc.Summary
			resp.Description = &inc.Description
			resp.Urgency = &inc.Urgency
		}
	}
	return resp
}

// FromTickets maps a slice, always yielding a non-nil array.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, FromTicket(&tickets[i]))
	}
	return result
}

// FromNotes normalizes the note thread for responses.
func FromNotes(notes []domain.Note) []NoteResponse {
	result := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		addedBy := note.AddedBy
		if addedBy == "" {
			addedBy = domain.UnknownAuthor
		}
		addedByEmail := note.AddedByEmail
		if addedByEmail == "" {
			addedByEmail = domain.UnknownAuthorEmail
		}
		result = append(result, NoteResponse{
			Text:         note.Text,
			AddedBy:      addedBy,
			AddedByEmail: addedByEmail,
			AddedAt:      note.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	return result
}

// Patch converts the edit request into a domain patch, normalizing the
// status value to the lowercase enum.
func (r EditTicketRequest) Patch() domain.TicketPatch {
	patch := domain.TicketPatch{
		Description: r.Description,
		Urgency:     r.Urgency,
		DBName:      r.DBName,
		AdminName:   r.AdminName,
		IP:          r.IP,
		Permission:  r.Permission,
		Deadline:    r.Deadline,
	}
	patch.Status = domain.Opt[domain.TicketStatus]{
		Set:   r.Status.Set,
		Valid: r.Status.Valid,
		Value: domain.TicketStatus(strings.ToLower(r.Status.Value)),
	}
	return patch
}
