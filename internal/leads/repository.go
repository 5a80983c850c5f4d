package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage.
type Repository interface {
	Insert(ctx context.Context, lead *Lead) (string, error)
	FindMostRecentByPhone(ctx context.Context, phone string) (*Lead, error)
	UpdateStatus(ctx context.Context, id, status, notes string) error
	ListRecent(ctx context.Context, filter ListFilter) ([]*Lead, error)
}

// InMemoryRepository is an in-memory Repository used in tests and local
// development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{leads: make(map[string]*Lead)}
}

// Insert stores a copy of lead and returns its generated ID.
func (r *InMemoryRepository) Insert(ctx context.Context, lead *Lead) (string, error) {
	now := time.Now().UTC()
	stored := *lead
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = StatusNew
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.mu.Lock()
	r.leads[stored.ID] = &stored
	r.mu.Unlock()

	return stored.ID, nil
}

// FindMostRecentByPhone returns the newest lead for phone, or
// ErrLeadNotFound.
func (r *InMemoryRepository) FindMostRecentByPhone(ctx context.Context, phone string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var newest *Lead
	for _, l := range r.leads {
		if l.Phone != phone {
			continue
		}
		if newest == nil || l.CreatedAt.After(newest.CreatedAt) {
			newest = l
		}
	}
	if newest == nil {
		return nil, ErrLeadNotFound
	}
	copied := *newest
	return &copied, nil
}

// UpdateStatus mutates status/notes, stamps last_contacted_at and bumps
// the contact counter.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status, notes string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	now := time.Now().UTC()
	l.Status = status
	if notes != "" {
		l.Notes = notes
	}
	l.LastContactedAt = &now
	l.ContactCount++
	l.UpdatedAt = now
	return nil
}

// ListRecent returns leads newest first, honoring the filter.
func (r *InMemoryRepository) ListRecent(ctx context.Context, filter ListFilter) ([]*Lead, error) {
	r.mu.RLock()
	all := make([]*Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		copied := *l
		all = append(all, &copied)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(all) {
			return []*Lead{}, nil
		}
		all = all[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}
