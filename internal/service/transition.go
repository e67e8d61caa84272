package service

import (
	"time"

	"github.com/spec-kit/itsm-console/internal/domain"
)

// TransitionResult is the decision produced by ResolveTransition: the
// minimal update set to persist and whether the change is the pure
// logged-to-opened visibility transition.
type TransitionResult struct {
	Update      domain.TicketUpdate
	OnlyOpening bool
}

// ResolveTransition compares a ticket snapshot against a proposed partial
// update and decides what to persist.
//
// A field counts as changed when it is provided and differs from the
// current value. The deadline is special: it only counts as changed when
// the ticket already has one and the timestamps differ, or when an
// explicit null clears it. Setting a first deadline still enters the
// update set but never flips the opening classification, so an admin
// opening a ticket together with its initial deadline is still a plain
// opening. A null deadline on a ticket that has none is no opinion.
//
// When an edit moves a ticket out of logged without supplying a deadline,
// the engine assigns now+offset so every ticket gains a deadline on its
// first real transition. The fallback only piggybacks on an otherwise
// non-empty update set; a no-op stays a no-op.
func ResolveTransition(current *domain.Ticket, patch domain.TicketPatch, now time.Time, deadlineOffset time.Duration) TransitionResult {
	var update domain.TicketUpdate

	statusChanged := patch.Status.Provided() && patch.Status.Value != current.Status
	if statusChanged {
		status := patch.Status.Value
		update.Status = &status
	}

	otherChanged := false
	apply := func(changed bool, set func()) {
		if changed {
			otherChanged = true
			set()
		}
	}

	switch current.Kind {
	case domain.KindServiceRequest:
		req := current.Request
		apply(patch.DBName.Provided() && patch.DBName.Value != req.DBName, func() {
			v := patch.DBName.Value
			update.DBName = &v
		})
		apply(patch.AdminName.Provided() && patch.AdminName.Value != req.AdminName, func() {
			v := patch.AdminName.Value
			update.AdminName = &v
		})
		apply(patch.IP.Provided() && patch.IP.Value != req.IP, func() {
			v := patch.IP.Value
			update.IP = &v
		})
		apply(patch.Permission.Provided() && patch.Permission.Value != req.Permission, func() {
			v := patch.Permission.Value
			update.Permission = &v
		})
	default:
		inc := current.Incident
		apply(patch.Description.Provided() && patch.Description.Value != inc.Description, func() {
			v := patch.Description.Value
			update.Description = &v
		})
		apply(patch.Urgency.Provided() && patch.Urgency.Value != inc.Urgency, func() {
			v := patch.Urgency.Value
			update.Urgency = &v
		})
	}

	deadlineCleared := patch.Deadline.Set && !patch.Deadline.Valid && current.Deadline != nil
	deadlineChanged := deadlineCleared ||
		(patch.Deadline.Provided() &&
			current.Deadline != nil &&
			!patch.Deadline.Value.Equal(*current.Deadline))

	switch {
	case deadlineCleared:
		// nil Deadline with SetDeadline writes NULL
		update.SetDeadline = true
	case deadlineChanged:
		deadline := patch.Deadline.Value
		update.Deadline = &deadline
		update.SetDeadline = true
	case current.Deadline == nil && patch.Deadline.Provided():
		deadline := patch.Deadline.Value
		update.Deadline = &deadline
		update.SetDeadline = true
	case current.Deadline == nil && !update.Empty() &&
		statusChanged && current.Status == domain.TicketStatusLogged:
		deadline := now.Add(deadlineOffset)
		update.Deadline = &deadline
		update.SetDeadline = true
	}

	onlyOpening := statusChanged &&
		patch.Status.Value == domain.TicketStatusOpened &&
		current.Status == domain.TicketStatusLogged &&
		!otherChanged &&
		!deadlineChanged

	return TransitionResult{Update: update, OnlyOpening: onlyOpening}
}
