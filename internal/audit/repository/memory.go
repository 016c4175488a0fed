package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
)

// MemoryRepository keeps audit logs in process memory. Used when no database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

// NewMemoryRepository returns an empty in-memory audit repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	c := *a
	r.mu.Lock()
	r.entries = append(r.entries, &c)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, f domain.Filter) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	var matched []*domain.AuditLog
	for _, e := range r.entries {
		if matches(e, f) {
			c := *e
			matched = append(matched, &c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	offset := int(max(f.Offset, 0))
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit := int(NormalizeLimit(f.Limit)); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func matches(e *domain.AuditLog, f domain.Filter) bool {
	switch {
	case f.ActorEmail != "" && e.ActorEmail != f.ActorEmail:
		return false
	case f.Action != "" && e.Action != f.Action:
		return false
	case f.Category != "" && e.Category != f.Category:
		return false
	case f.Severity != "" && e.Severity != f.Severity:
		return false
	case f.IdentityID != "" && e.IdentityID != f.IdentityID:
		return false
	case !f.Since.IsZero() && e.CreatedAt.Before(f.Since):
		return false
	case !f.Until.IsZero() && e.CreatedAt.After(f.Until):
		return false
	}
	return true
}
