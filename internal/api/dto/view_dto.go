package dto

import (
	"time"

	"github.com/spec-kit/itsm-console/internal/domain"
)

// TicketViewResponse is the read projection returned by the view
// endpoint: selected fields only, notes normalized.
type TicketViewResponse struct {
	IncidentID     string         `json:"incidentId,omitempty"`
	RequestID      string         `json:"requestId,omitempty"`
	Status         string         `json:"status"`
	TenantID       string         `json:"tenantId,omitempty"`
	Summary        *string        `json:"summary,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Urgency        *string        `json:"urgency,omitempty"`
	DBName         *string        `json:"dbName,omitempty"`
	IP             *string        `json:"ip,omitempty"`
	Permission     *bool          `json:"permission,omitempty"`
	AdminName      *string        `json:"adminName,omitempty"`
	AdditionalInfo *string        `json:"additionalInfo,omitempty"`
	ActionTaken    string         `json:"actionTaken,omitempty"`
	ActionedBy     string         `json:"actionedBy,omitempty"`
	ActionedAt     *time.Time     `json:"actionedAt,omitempty"`
	Notes          []NoteResponse `json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// FromTicketView maps a ticket onto the view projection.
func FromTicketView(ticket *domain.Ticket) TicketViewResponse {
	resp := TicketViewResponse{
		Status:      string(ticket.Status),
		TenantID:    ticket.TenantID,
		ActionTaken: ticket.ActionTaken,
		ActionedBy:  ticket.ActionedBy,
		ActionedAt:  ticket.ActionedAt,
		Notes:       FromNotes(ticket.Notes),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
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
