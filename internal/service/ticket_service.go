package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/internal/events"
	"github.com/spec-kit/itsm-console/internal/repository"
	"github.com/spec-kit/itsm-console/pkg/util"
)

// humanIDPattern enforces the <creatorHandle>-<epochMillis> shape.
var humanIDPattern = regexp.MustCompile(`^.+-[0-9]+$`)

// TicketService coordinates the lifecycle of one ticket kind. Two
// instances run side by side, one per kind, sharing the implementation
// through the kind descriptor.
type TicketService struct {
	spec           domain.KindSpec
	tickets        repository.TicketRepository
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	deadlineOffset time.Duration
	now            func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	DeadlineOffset time.Duration
	Clock          func() time.Time
}

// CreateTicketInput describes ticket creation payload. Kind-specific
// fields are validated against the service's kind.
type CreateTicketInput struct {
	HumanID        string
	TenantID       string
	CreatedBy      string
	ReporterEmail  string
	Summary        string
	Description    string
	Urgency        string
	DBName         string
	IP             string
	Permission     bool
	AdminName      string
	AdditionalInfo string
}

// NewTicketService constructs the service for a kind.
func NewTicketService(spec domain.KindSpec, deps TicketDependencies) *TicketService {
	svc := &TicketService{
		spec:           spec,
		tickets:        deps.TicketRepo,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		deadlineOffset: deps.DeadlineOffset,
		now:            deps.Clock,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.deadlineOffset <= 0 {
		svc.deadlineOffset = 24 * time.Hour
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Kind returns the descriptor this service is bound to.
func (s *TicketService) Kind() domain.KindSpec {
	return s.spec
}

// Create validates required fields, persists a freshly-logged ticket and
// notifies the admin audience.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		HumanID:        strings.TrimSpace(input.HumanID),
		Kind:           s.spec.Kind,
		Status:         domain.TicketStatusLogged,
		TenantID:       input.TenantID,
		CreatedBy:      strings.ToLower(strings.TrimSpace(input.CreatedBy)),
		CreatedByEmail: input.ReporterEmail,
	}

	if s.spec.Kind == domain.KindServiceRequest {
		ticket.Request = &domain.RequestDetails{
			DBName:         input.DBName,
			IP:             input.IP,
			Permission:     input.Permission,
			AdminName:      input.AdminName,
			AdditionalInfo: input.AdditionalInfo,
		}
	} else {
		urgency := input.Urgency
		if urgency == "" {
			urgency = domain.DefaultUrgency
		}
		ticket.Incident = &domain.IncidentDetails{
			Summary:     input.Summary,
			Description: input.Description,
			Urgency:     urgency,
		}
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		Kind:     s.spec.Kind,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Subject:       ticket.Subject(),
			ReporterEmail: ticket.CreatedByEmail,
		},
	})
	return ticket, nil
}

// AddNote appends a note to the ticket's thread and notifies the
// audience opposite the author's role.
func (s *TicketService) AddNote(ctx context.Context, id, text, addedBy, addedByEmail, role string) (*domain.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, util.NewValidationError("note text is required", nil)
	}

	ticket, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	note := domain.NewNote(text, addedBy, addedByEmail, s.now())
	if err := s.tickets.AppendNote(ctx, ticket.ID, note); err != nil {
		return nil, s.mapNotFound(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketNoted,
		Kind:     s.spec.Kind,
		TicketID: ticket.ID,
		Payload: events.TicketNotedPayload{
			Subject: ticket.Subject(),
			Role:    role,
			Note:    note,
		},
	})
	return &note, nil
}

// Edit runs the transition engine against the proposed patch. An empty
// update set is a no-op: the current ticket is returned untouched and no
// notification fires.
func (s *TicketService) Edit(ctx context.Context, id string, patch domain.TicketPatch, actorEmail string) (*domain.Ticket, error) {
	ticket, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := ResolveTransition(ticket, patch, s.now(), s.deadlineOffset)
	if result.Update.Empty() {
		return ticket, nil
	}

	updated, err := s.tickets.Update(ctx, ticket.ID, result.Update)
	if err != nil {
		// the ticket may have been deleted between the read and the write
		return nil, s.mapNotFound(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketEdited,
		Kind:     s.spec.Kind,
		TicketID: updated.ID,
		Payload: events.TicketEditedPayload{
			Subject:     ticket.Subject(),
			CreatedBy:   updated.CreatedBy,
			ActorEmail:  actorEmail,
			OnlyOpening: result.OnlyOpening,
		},
	})
	return updated, nil
}

// Resolve unconditionally moves the ticket to resolved, recording the
// action taken. Resolution always counts as a reportable change.
func (s *TicketService) Resolve(ctx context.Context, id, action, actorEmail string) (*domain.Ticket, error) {
	actionedBy := actorEmail
	if strings.TrimSpace(actionedBy) == "" {
		actionedBy = "admin"
	}

	updated, err := s.tickets.Resolve(ctx, id, action, actionedBy, s.now())
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketResolved,
		Kind:     s.spec.Kind,
		TicketID: updated.ID,
		Payload: events.TicketResolvedPayload{
			Subject:    updated.Subject(),
			ActorEmail: actorEmail,
		},
	})
	return updated, nil
}

// View reads a ticket and, when it is still logged, flips it to opened as
// a side effect. The read-side flip sets no deadline and sends no
// notification; the notifying transition belongs to Edit.
func (s *TicketService) View(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Status == domain.TicketStatusLogged {
		if err := s.tickets.UpdateStatus(ctx, ticket.ID, domain.TicketStatusOpened); err != nil {
			return nil, s.mapNotFound(err)
		}
		ticket.Status = domain.TicketStatusOpened
	}
	return ticket, nil
}

// Get reads a ticket without the auto-open side effect.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.get(ctx, id)
}

// ListByCreatorPrefix returns tickets whose humanId starts with
// "<handle>-", newest first.
func (s *TicketService) ListByCreatorPrefix(ctx context.Context, handle string) ([]domain.Ticket, error) {
	return s.tickets.ListByHumanIDPrefix(ctx, handle)
}

// ListByCreator returns tickets created by the given name or email,
// matched exactly or case-insensitively, newest first.
func (s *TicketService) ListByCreator(ctx context.Context, nameOrEmail string) ([]domain.Ticket, error) {
	return s.tickets.ListByCreator(ctx, nameOrEmail)
}

// ListAll returns every ticket of this kind, newest first.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

func (s *TicketService) validateCreate(input CreateTicketInput) error {
	missing := []string{}
	requireField := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	requireField("humanId", input.HumanID)
	if s.spec.Kind == domain.KindServiceRequest {
		requireField("dbName", input.DBName)
		requireField("ip", input.IP)
		requireField("adminName", input.AdminName)
	} else {
		requireField("summary", input.Summary)
		requireField("description", input.Description)
		requireField("tenantId", input.TenantID)
	}
	if len(missing) > 0 {
		return util.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	if !humanIDPattern.MatchString(strings.TrimSpace(input.HumanID)) {
		return util.NewValidationError("humanId must look like <handle>-<epochMillis>", nil)
	}
	return nil
}

func (s *TicketService) get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return ticket, nil
}

func (s *TicketService) mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound(s.spec.Label, nil)
	}
	return err
}

// publish hands the event to the dispatcher. Dispatch is the best-effort
// second step of the mutation saga: a failure here is reported in the log
// but never unwinds the committed write.
func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
