package dto

import (
	"time"

	"github.com/spec-kit/itsm-console/internal/domain"
)

// NotificationResponse renders a persisted notification.
type NotificationResponse struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Title         string        `json:"title,omitempty"`
	Message       string        `json:"message"`
	RecipientType string        `json:"recipientType"`
	IncidentID    string        `json:"incidentId,omitempty"`
	RequestID     string        `json:"requestId,omitempty"`
	Note          *NoteResponse `json:"note,omitempty"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// UnreadCountResponse carries the polling badge count.
type UnreadCountResponse struct {
	RecipientType string `json:"recipientType"`
	Unread        int64  `json:"unread"`
}

// FromNotification maps a domain notification onto the wire shape.
func FromNotification(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:            n.ID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		RecipientType: string(n.RecipientType),
		IncidentID:    n.IncidentID,
		RequestID:     n.RequestID,
		Status:        string(n.Status),
		CreatedAt:     n.CreatedAt,
	}
	if n.Note != nil {
		notes := FromNotes([]domain.Note{*n.Note})
		resp.Note = &notes[0]
	}
	return resp
}

// FromNotifications maps a slice, always yielding a non-nil array.
func FromNotifications(items []domain.Notification) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(items))
	for i := range items {
		result = append(result, FromNotification(&items[i]))
	}
	return result
}
