// Package subscribers captures newsletter/exit-intent email signups.
package subscribers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrAlreadySubscribed marks a unique-violation on the email column.
// Callers report it as a friendly success, not a failure.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// Known signup sources.
const (
	SourceExitIntent = "exit_intent"
	SourceNewsletter = "newsletter"
	SourceFooter     = "footer"
	SourcePopup      = "popup"
)

// Subscriber is one captured email signup.
type Subscriber struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	PageURL   string `json:"page_url,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// PgxPool is the pool subset the store needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists subscribers in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a subscriber store.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		panic("subscribers: pgx pool required")
	}
	return &Store{pool: pool}
}

// Insert writes one subscriber row. The email is lowercased and
// trimmed before the write so the unique index sees one form only.
func (s *Store) Insert(ctx context.Context, sub Subscriber) (string, error) {
	id := uuid.New()
	email := strings.ToLower(strings.TrimSpace(sub.Email))

	query := `
		INSERT INTO email_subscribers (id, email, source, page_url, user_agent)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
	`
	if _, err := s.pool.Exec(ctx, query, id, email, sub.Source, sub.PageURL, sub.UserAgent); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrAlreadySubscribed
		}
		return "", fmt.Errorf("subscribers: insert failed: %w", err)
	}
	return id.String(), nil
}
