package repository

import (
	"context"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
)

// Repository defines persistence for audit logs. Entries are append-only: there is no update or delete.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	List(ctx context.Context, f domain.Filter) ([]*domain.AuditLog, error)
	Create(ctx context.Context, a *domain.AuditLog) error
}

// DefaultListLimit bounds List when the filter has no limit.
const DefaultListLimit = 100

// MaxListLimit is the largest page List returns.
const MaxListLimit = 1000

// NormalizeLimit clamps limit into [1, MaxListLimit], defaulting to DefaultListLimit.
func NormalizeLimit(limit int32) int32 {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
