package lifecycle

import (
	"context"
	"time"

	auditdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
)

// EventKind names a notification-worthy lifecycle event.
type EventKind string

const (
	EventIssueReported        EventKind = "issueReported"
	EventOnboarded            EventKind = "onboarded"
	EventOffboardingInitiated EventKind = "offboardingInitiated"
	EventOffboardingComplete  EventKind = "offboardingComplete"
)

// Event is the payload handed to notification sinks. It is also the Kafka message body.
type Event struct {
	ID             string    `json:"id"`
	Kind           EventKind `json:"kind"`
	IdentityID     string    `json:"identity_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	GrantID        string    `json:"grant_id,omitempty"`
	CredentialName string    `json:"credential_name,omitempty"`
	Note           string    `json:"note,omitempty"`
	ActorEmail     string    `json:"actor_email,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Effects are the side effects of one committed operation.
type Effects struct {
	Audits []*auditdomain.AuditLog
	Events []Event
}

func (fx *Effects) empty() bool {
	return len(fx.Audits) == 0 && len(fx.Events) == 0
}

// Dispatcher receives effects after commit. Dispatch must not block on delivery
// and must not report delivery failures back to the engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, fx Effects)
}
