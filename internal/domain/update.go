package domain

import "time"

// TicketUpdate is the minimal update set resolved by the transition
// engine. Nil pointers mean "leave the column alone"; Deadline is only
// written when SetDeadline is true, so a nil Deadline with SetDeadline
// unset is distinguishable from clearing the value.
type TicketUpdate struct {
	Description *string
	Urgency     *string
	DBName      *string
	AdminName   *string
	IP          *string
	Permission  *bool
	Status      *TicketStatus
	Deadline    *time.Time
	SetDeadline bool
}

// Empty reports whether the update set would persist nothing.
func (u TicketUpdate) Empty() bool {
	return u.Description == nil &&
		u.Urgency == nil &&
		u.DBName == nil &&
		u.AdminName == nil &&
		u.IP == nil &&
		u.Permission == nil &&
		u.Status == nil &&
		!u.SetDeadline
}
