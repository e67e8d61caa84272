package domain

import "time"

// RecipientType is a coarse audience class for notifications, not an
// individual identity.
type RecipientType string

const (
	RecipientAdmin RecipientType = "admin"
	RecipientUser  RecipientType = "user"
)

// NotificationStatus tracks read state.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Notification records a ticket lifecycle event for later polling by a
// recipient class. At most one of IncidentID/RequestID is set, matching
// the source ticket's kind. Immutable after creation except for Status.
type Notification struct {
	ID            string
	Type          string
	Title         string
	Message       string
	RecipientType RecipientType
	IncidentID    string
	RequestID     string
	Note          *Note
	Status        NotificationStatus
	CreatedAt     time.Time
}
