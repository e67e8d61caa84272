package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-console/internal/domain"
)

// TicketRepository encapsulates persistence for one ticket kind. The same
// implementation serves incidents and service requests; the kind
// descriptor selects the table and detail columns.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
	Resolve(ctx context.Context, id, actionTaken, actionedBy string, at time.Time) (*domain.Ticket, error)
	AppendNote(ctx context.Context, id string, note domain.Note) error
	ListByHumanIDPrefix(ctx context.Context, handle string) ([]domain.Ticket, error)
	ListByCreator(ctx context.Context, nameOrEmail string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
	spec domain.KindSpec
}

// NewTicketRepository instantiates a repository bound to one kind table.
func NewTicketRepository(pool *pgxpool.Pool, spec domain.KindSpec) TicketRepository {
	return &ticketRepository{pool: pool, spec: spec}
}

const sharedColumns = `id, human_id, status, tenant_id, created_by, created_by_email,
       deadline, action_taken, actioned_by, actioned_at, notes, created_at, updated_at`

func (r *ticketRepository) detailColumns() string {
	if r.spec.Kind == domain.KindServiceRequest {
		return "db_name, ip, permission, admin_name, additional_info"
	}
	return "summary, description, urgency"
}

func (r *ticketRepository) selectClause() string {
	return fmt.Sprintf("SELECT %s, %s FROM %s", sharedColumns, r.detailColumns(), r.spec.Table)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	shared := []string{"human_id", "status", "tenant_id", "created_by", "created_by_email"}
	args := []any{ticket.HumanID, ticket.Status, ticket.TenantID, ticket.CreatedBy, ticket.CreatedByEmail}

	if r.spec.Kind == domain.KindServiceRequest {
		req := ticket.Request
		args = append(args, req.DBName, req.IP, req.Permission, req.AdminName, req.AdditionalInfo)
	} else {
		inc := ticket.Incident
		args = append(args, inc.Summary, inc.Description, inc.Urgency)
	}

	columns := strings.Join(shared, ", ") + ", " + r.detailColumns()
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at`,
		r.spec.Table, columns, strings.Join(placeholders, ","))
	return r.pool.QueryRow(ctx, query, args...).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := r.selectClause() + " WHERE id=$1"
	return r.fetchSingle(ctx, query, id)
}

// Update applies a partial update set and returns the resulting row.
// Callers guarantee the update set is non-empty.
func (r *ticketRepository) Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.SetDeadline {
		add("deadline", update.Deadline)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Urgency != nil {
		add("urgency", *update.Urgency)
	}
	if update.DBName != nil {
		add("db_name", *update.DBName)
	}
	if update.AdminName != nil {
		add("admin_name", *update.AdminName)
	}
	if update.IP != nil {
		add("ip", *update.IP)
	}
	if update.Permission != nil {
		add("permission", *update.Permission)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d RETURNING %s, %s",
		r.spec.Table, strings.Join(sets, ", "), len(args), sharedColumns, r.detailColumns())

	return r.scanRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	query := fmt.Sprintf("UPDATE %s SET status=$1, updated_at=NOW() WHERE id=$2", r.spec.Table)
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Resolve(ctx context.Context, id, actionTaken, actionedBy string, at time.Time) (*domain.Ticket, error) {
	query := fmt.Sprintf(`UPDATE %s
        SET status=$1, action_taken=$2, actioned_by=$3, actioned_at=$4, updated_at=NOW()
        WHERE id=$5 RETURNING %s, %s`, r.spec.Table, sharedColumns, r.detailColumns())
	return r.scanRow(r.pool.QueryRow(ctx, query, domain.TicketStatusResolved, actionTaken, actionedBy, at, id))
}

// AppendNote pushes a single note onto the JSONB array. A single-field
// concat keeps concurrent appends from clobbering each other the way a
// full-document replace would.
func (r *ticketRepository) AppendNote(ctx context.Context, id string, note domain.Note) error {
	payload, err := json.Marshal(note)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET notes = notes || $1::jsonb, updated_at=NOW() WHERE id=$2", r.spec.Table)
	cmd, err := r.pool.Exec(ctx, query, payload, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListByHumanIDPrefix(ctx context.Context, handle string) ([]domain.Ticket, error) {
	query := r.selectClause() + " WHERE human_id LIKE $1 ORDER BY created_at DESC"
	return r.fetchMany(ctx, query, likePrefix(handle)+"-%")
}

func (r *ticketRepository) ListByCreator(ctx context.Context, nameOrEmail string) ([]domain.Ticket, error) {
	query := r.selectClause() + ` WHERE created_by = $1 OR LOWER(created_by) = LOWER($1)
        ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, nameOrEmail)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.fetchMany(ctx, r.selectClause()+" ORDER BY created_at DESC")
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	return r.scanRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *ticketRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) scanRow(row pgx.Row) (*domain.Ticket, error) {
	ticket := domain.Ticket{Kind: r.spec.Kind}
	var notes []byte

	dest := []any{
		&ticket.ID,
		&ticket.HumanID,
		&ticket.Status,
		&ticket.TenantID,
		&ticket.CreatedBy,
		&ticket.CreatedByEmail,
		&ticket.Deadline,
		&ticket.ActionTaken,
		&ticket.ActionedBy,
		&ticket.ActionedAt,
		&notes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}

	if r.spec.Kind == domain.KindServiceRequest {
		ticket.Request = &domain.RequestDetails{}
		dest = append(dest,
			&ticket.Request.DBName,
			&ticket.Request.IP,
			&ticket.Request.Permission,
			&ticket.Request.AdminName,
			&ticket.Request.AdditionalInfo,
		)
	} else {
		ticket.Incident = &domain.IncidentDetails{}
		dest = append(dest,
			&ticket.Incident.Summary,
			&ticket.Incident.Description,
			&ticket.Incident.Urgency,
		)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &ticket.Notes); err != nil {
			return nil, fmt.Errorf("decode notes: %w", err)
		}
	}
	return &ticket, nil
}

// likePrefix escapes LIKE metacharacters in a client-supplied handle.
func likePrefix(handle string) string {
	escaped := strings.ReplaceAll(handle, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "%", `\%`)
	return strings.ReplaceAll(escaped, "_", `\_`)
}
