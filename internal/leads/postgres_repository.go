package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// implements it for tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Insert writes a new row and returns the generated identifier.
func (r *PostgresRepository) Insert(ctx context.Context, lead *Lead) (string, error) {
	id := uuid.New()
	status := lead.Status
	if status == "" {
		status = StatusNew
	}
	query := `
		INSERT INTO leads (
			id, full_name, phone, email, property_interest, property_ref,
			budget_range, property_type, contact_preference, source,
			assigned_agent, priority, status, user_agent, ip_address,
			referrer_url, utm_source, utm_medium, utm_campaign
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''),
			NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10,
			$11, $12, $13, NULLIF($14, ''), NULLIF($15, ''),
			NULLIF($16, ''), NULLIF($17, ''), NULLIF($18, ''), NULLIF($19, '')
		)
		RETURNING id
	`
	var returned uuid.UUID
	if err := r.pool.QueryRow(ctx, query,
		id,
		lead.FullName,
		lead.Phone,
		lead.Email,
		lead.PropertyInterest,
		lead.PropertyRef,
		lead.BudgetRange,
		lead.PropertyType,
		lead.ContactPreference,
		lead.Source,
		lead.AssignedAgent,
		lead.Priority,
		status,
		lead.UserAgent,
		lead.IPAddress,
		lead.ReferrerURL,
		lead.UTMSource,
		lead.UTMMedium,
		lead.UTMCampaign,
	).Scan(&returned); err != nil {
		return "", fmt.Errorf("leads: insert failed: %w", err)
	}
	return returned.String(), nil
}

// FindMostRecentByPhone returns the newest lead for phone; ties on
// created_at break toward the most recent row. A missing row maps to
// ErrLeadNotFound, every other fault is a store error.
func (r *PostgresRepository) FindMostRecentByPhone(ctx context.Context, phone string) (*Lead, error) {
	query := `
		SELECT id, full_name, phone, COALESCE(email, ''),
			property_interest, COALESCE(property_ref, ''),
			COALESCE(budget_range, ''), COALESCE(property_type, ''),
			COALESCE(contact_preference, ''), source, assigned_agent,
			priority, status, COALESCE(notes, ''), last_contacted_at,
			contact_count, created_at, updated_at
		FROM leads
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, phone)

	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.FullName,
		&lead.Phone,
		&lead.Email,
		&lead.PropertyInterest,
		&lead.PropertyRef,
		&lead.BudgetRange,
		&lead.PropertyType,
		&lead.ContactPreference,
		&lead.Source,
		&lead.AssignedAgent,
		&lead.Priority,
		&lead.Status,
		&lead.Notes,
		&lead.LastContactedAt,
		&lead.ContactCount,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select by phone failed: %w", err)
	}
	return &lead, nil
}

// UpdateStatus mutates status/notes, stamps last_contacted_at and
// increments the contact counter.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	query := `
		UPDATE leads
		SET status = $2,
			notes = COALESCE(NULLIF($3, ''), notes),
			last_contacted_at = now(),
			contact_count = contact_count + 1,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status, notes)
	if err != nil {
		return fmt.Errorf("leads: update status failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// ListRecent returns leads newest first for the admin dashboard.
func (r *PostgresRepository) ListRecent(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
		SELECT id, full_name, phone, COALESCE(email, ''),
			property_interest, COALESCE(property_ref, ''),
			COALESCE(budget_range, ''), COALESCE(property_type, ''),
			COALESCE(contact_preference, ''), source, assigned_agent,
			priority, status, COALESCE(notes, ''), last_contacted_at,
			contact_count, created_at, updated_at
		FROM leads
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.FullName,
			&lead.Phone,
			&lead.Email,
			&lead.PropertyInterest,
			&lead.PropertyRef,
			&lead.BudgetRange,
			&lead.PropertyType,
			&lead.ContactPreference,
			&lead.Source,
			&lead.AssignedAgent,
			&lead.Priority,
			&lead.Status,
			&lead.Notes,
			&lead.LastContactedAt,
			&lead.ContactCount,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: rows failed: %w", err)
	}
	return out, nil
}
