package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/internal/events"
	"github.com/spec-kit/itsm-console/internal/repository"
	"github.com/spec-kit/itsm-console/pkg/util"
)

const unreadCacheTTL = 30 * time.Second

// NotificationService translates ticket lifecycle events into persisted
// notifications and serves the polling queries.
type NotificationService struct {
	store  repository.NotificationRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	Cache            *redis.Client
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		store:  deps.NotificationRepo,
		cache:  deps.Cache,
		logger: logger,
	}
}

// RegisterHandlers subscribes to ticket lifecycle events.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketNoted, n.handleTicketNoted)
	dispatcher.Subscribe(events.EventTicketEdited, n.handleTicketEdited)
	dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

// ListByAudience returns notifications for a recipient class, newest
// first. The admin audience receives the union of admin and user items.
func (n *NotificationService) ListByAudience(ctx context.Context, recipient domain.RecipientType) ([]domain.Notification, error) {
	if recipient == "" {
		return nil, util.NewValidationError("recipientType is required", nil)
	}
	return n.store.ListByAudience(ctx, recipient)
}

// MarkRead flips a notification from unread to read.
func (n *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := n.store.MarkRead(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("notification", nil)
		}
		return err
	}
	n.invalidateUnread(ctx)
	return nil
}

// UnreadCount returns the number of unread notifications for a recipient
// class, served from a short-lived Redis cache when available.
func (n *NotificationService) UnreadCount(ctx context.Context, recipient domain.RecipientType) (int64, error) {
	if recipient == "" {
		return 0, util.NewValidationError("recipientType is required", nil)
	}

	key := unreadCacheKey(recipient)
	if n.cache != nil {
		if cached, err := n.cache.Get(ctx, key).Int64(); err == nil {
			return cached, nil
		}
	}

	count, err := n.store.CountUnread(ctx, recipient)
	if err != nil {
		return 0, err
	}
	if n.cache != nil {
		if err := n.cache.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil {
			n.logger.Debug("unread count cache write failed", zap.Error(err))
		}
	}
	return count, nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	spec := domain.SpecFor(event.Kind)

	title := payload.ReporterEmail
	if title == "" {
		title = "System"
	}
	return n.save(ctx, event, &domain.Notification{
		Type:          spec.CreatedType,
		Title:         title,
		Message:       fmt.Sprintf("New %s reported: %s", spec.Label, payload.Subject),
		RecipientType: domain.RecipientAdmin,
	})
}

func (n *NotificationService) handleTicketNoted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketNotedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	spec := domain.SpecFor(event.Kind)

	whoAdded := "Someone"
	recipient := domain.RecipientAdmin
	switch strings.ToLower(payload.Role) {
	case "admin":
		whoAdded = "Admin"
		recipient = domain.RecipientUser
	case "user":
		whoAdded = "User"
		recipient = domain.RecipientAdmin
	}

	note := payload.Note
	return n.save(ctx, event, &domain.Notification{
		Type:  "newNote",
		Title: note.AddedByEmail,
		Message: fmt.Sprintf("New note added by %s (%s) on %s %q.",
			whoAdded, note.AddedByEmail, spec.Label, payload.Subject),
		RecipientType: recipient,
		Note:          &note,
	})
}

func (n *NotificationService) handleTicketEdited(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEditedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	// edits on tickets with no recorded creator have no audience
	if payload.CreatedBy == "" {
		return nil
	}
	spec := domain.SpecFor(event.Kind)

	notificationType := spec.UpdatedType
	message := fmt.Sprintf("%s %q has been updated.", spec.CapitalizedLabel(), payload.Subject)
	if payload.OnlyOpening {
		notificationType = spec.OpenedType
		message = fmt.Sprintf("Your %s %q was opened by admin.", spec.Label, payload.Subject)
	}

	return n.save(ctx, event, &domain.Notification{
		Type:          notificationType,
		Title:         actorTitle(payload.ActorEmail),
		Message:       message,
		RecipientType: domain.RecipientUser,
	})
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResolvedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	spec := domain.SpecFor(event.Kind)

	return n.save(ctx, event, &domain.Notification{
		Type:          "statusChange",
		Title:         actorTitle(payload.ActorEmail),
		Message:       fmt.Sprintf("%s %q has been RESOLVED.", spec.CapitalizedLabel(), payload.Subject),
		RecipientType: domain.RecipientUser,
	})
}

func (n *NotificationService) save(ctx context.Context, event events.Event, notification *domain.Notification) error {
	if event.Kind == domain.KindServiceRequest {
		notification.RequestID = event.TicketID
	} else {
		notification.IncidentID = event.TicketID
	}

	if err := n.store.Create(ctx, notification); err != nil {
		n.logger.Error("notification save failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return err
	}
	n.invalidateUnread(ctx)
	return nil
}

func (n *NotificationService) invalidateUnread(ctx context.Context) {
	if n.cache == nil {
		return
	}
	keys := []string{
		unreadCacheKey(domain.RecipientAdmin),
		unreadCacheKey(domain.RecipientUser),
	}
	if err := n.cache.Del(ctx, keys...).Err(); err != nil {
		n.logger.Debug("unread count cache invalidation failed", zap.Error(err))
	}
}

func actorTitle(email string) string {
	if strings.TrimSpace(email) == "" {
		return "admin"
	}
	return email
}

func unreadCacheKey(recipient domain.RecipientType) string {
	return "notifications:unread:" + string(recipient)
}
