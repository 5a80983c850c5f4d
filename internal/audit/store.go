// Package audit records side-effect attempts in the append-only
// system_logs table. Entries are write-once; nothing here mutates or
// deletes them.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType tags the side-effect an entry describes.
type EventType string

const (
	// EventWhatsAppOutbound is logged when an outbound message is queued.
	EventWhatsAppOutbound EventType = "WHATSAPP_OUTBOUND"
	// EventCRMSync is logged for the simulated CRM contact sync.
	EventCRMSync EventType = "CRM_SYNC"
	// EventLeadCaptureError is logged when persisting a lead fails.
	EventLeadCaptureError EventType = "LEAD_CAPTURE_ERROR"
	// EventLeadStatusChange is logged when an operator moves a lead.
	EventLeadStatusChange EventType = "LEAD_STATUS_CHANGE"
)

// Entry statuses.
const (
	StatusQueued  = "QUEUED"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Entry is an immutable audit record.
type Entry struct {
	ID        string          `json:"id"`
	EventType EventType       `json:"event_type"`
	Status    string          `json:"status"`
	LeadID    string          `json:"lead_id,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists audit entries.
type Store struct {
	db *sql.DB
}

// NewStore creates an audit store over the shared database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes one entry. Callers treat failures as operational noise,
// never as submission failures.
func (s *Store) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO system_logs (id, event_type, status, lead_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.EventType),
		entry.Status,
		nullString(entry.LeadID),
		[]byte(entry.Details),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: append failed: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries for the admin system-log view.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT id, event_type, status, COALESCE(lead_id::text, ''), details, created_at
		FROM system_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: list failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.Status, &e.LeadID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan failed: %w", err)
		}
		e.Details = json.RawMessage(details)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: rows failed: %w", err)
	}
	return out, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Details marshals a details payload, falling back to nil on marshal
// failure so a bad payload never blocks an audit write.
func Details(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
