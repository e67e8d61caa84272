package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-console/internal/domain"
	"github.com/spec-kit/itsm-console/pkg/util"
)

// NotificationRepository encapsulates notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByAudience(ctx context.Context, recipient domain.RecipientType) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipient domain.RecipientType) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.RecipientType == "" {
		return util.NewValidationError("recipientType is required", nil)
	}
	if n.Status == "" {
		n.Status = domain.NotificationUnread
	}

	var note []byte
	if n.Note != nil {
		encoded, err := json.Marshal(n.Note)
		if err != nil {
			return err
		}
		note = encoded
	}

	const query = `
        INSERT INTO notifications (type, title, message, recipient_type, incident_id, request_id, note, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		n.Type,
		n.Title,
		n.Message,
		n.RecipientType,
		n.IncidentID,
		n.RequestID,
		note,
		n.Status,
	).Scan(&n.ID, &n.CreatedAt)
}

// ListByAudience returns notifications newest-first. The admin audience
// sees the union of admin- and user-addressed items; any other value is
// scoped to user-addressed items only.
func (r *notificationRepository) ListByAudience(ctx context.Context, recipient domain.RecipientType) ([]domain.Notification, error) {
	const base = `
        SELECT id, type, title, message, recipient_type, incident_id, request_id, note, status, created_at
        FROM notifications`

	var (
		rows pgx.Rows
		err  error
	)
	if recipient == domain.RecipientAdmin {
		rows, err = r.pool.Query(ctx, base+` WHERE recipient_type IN ('admin','user') ORDER BY created_at DESC`)
	} else {
		rows, err = r.pool.Query(ctx, base+` WHERE recipient_type = $1 ORDER BY created_at DESC`, domain.RecipientUser)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var (
			n    domain.Notification
			note []byte
		)
		if err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.RecipientType,
			&n.IncidentID,
			&n.RequestID,
			&note,
			&n.Status,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(note) > 0 {
			n.Note = &domain.Note{}
			if err := json.Unmarshal(note, n.Note); err != nil {
				return nil, err
			}
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET status=$1 WHERE id=$2`, domain.NotificationRead, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipient domain.RecipientType) (int64, error) {
	var count int64
	var err error
	if recipient == domain.RecipientAdmin {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notifications WHERE status='unread' AND recipient_type IN ('admin','user')`).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM notifications WHERE status='unread' AND recipient_type=$1`, domain.RecipientUser).Scan(&count)
	}
	return count, err
}
