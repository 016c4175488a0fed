package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
	auditrepo "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context (e.g. gRPC metadata or peer).
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit entry.
// Log is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown" unless the entry already carries one.
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// Log fills ID, timestamp, IP and classification when unset, then persists the entry.
// Best-effort: errors are logged and not returned.
func (l *Logger) Log(ctx context.Context, entry *domain.AuditLog) {
	if l.repo == nil || entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.IP == "" {
		entry.IP = "unknown"
		if l.ipExtractor != nil {
			entry.IP = l.ipExtractor(ctx)
		}
	}
	c := Classify(entry.Action)
	if entry.Severity == "" {
		entry.Severity = c.Severity
	}
	if entry.Category == "" {
		entry.Category = c.Category
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s: %v", entry.Action, err)
	}
}
