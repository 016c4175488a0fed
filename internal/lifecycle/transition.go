package lifecycle

import (
	"fmt"
	"time"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

// TransitionKind tags where a status change comes from. Administrative commands and the
// grant aggregate both feed Apply, which is the only code that writes Identity.Status.
type TransitionKind string

const (
	ExplicitOnboard             TransitionKind = "ExplicitOnboard"
	ExplicitInitiateOffboarding TransitionKind = "ExplicitInitiateOffboarding"
	ExplicitCompleteOffboarding TransitionKind = "ExplicitCompleteOffboarding"
	DerivedRecompute            TransitionKind = "DerivedRecompute"
)

// Transition is one request to move an identity's status.
type Transition struct {
	Kind TransitionKind
	// Derived is the status computed from the grant aggregate. Only read for DerivedRecompute.
	Derived identitydomain.Status
	At      time.Time
}

// Outcome describes what Apply did.
type Outcome struct {
	Kind    TransitionKind
	From    identitydomain.Status
	To      identitydomain.Status
	Changed bool
	// Event is the notification to emit, or empty.
	Event EventKind
	// AuditAction is the audit action to record for the status change, or empty.
	AuditAction string
}

// Apply validates tr against the identity's current status and, when legal, writes the new
// status and transition timestamps onto i.
//
// The caller must hold the identity lock; the last transition applied under that lock wins.
// An explicit override therefore stands until the next grant mutation recomputes status.
// Explicit transitions always produce their event. A derived transition produces an event and
// a status_changed audit only when the status actually moves.
func Apply(i *identitydomain.Identity, tr Transition) (Outcome, error) {
	out := Outcome{Kind: tr.Kind, From: i.Status}
	switch tr.Kind {
	case ExplicitOnboard:
		if i.Status == identitydomain.StatusOnboarded {
			return out, fmt.Errorf("identity %s is already onboarded: %w", i.ID, ErrConflict)
		}
		out.To = identitydomain.StatusOnboarded
		out.Event = EventOnboarded
		out.AuditAction = audit.ActionUserOnboarded
	case ExplicitInitiateOffboarding:
		if i.Status == identitydomain.StatusOffboarded {
			return out, fmt.Errorf("identity %s is already offboarded: %w", i.ID, ErrConflict)
		}
		out.To = identitydomain.StatusOffboardingInProgress
		out.Event = EventOffboardingInitiated
		out.AuditAction = audit.ActionOffboardingInitiated
	case ExplicitCompleteOffboarding:
		if i.Status == identitydomain.StatusOffboarded {
			return out, fmt.Errorf("identity %s is already offboarded: %w", i.ID, ErrConflict)
		}
		out.To = identitydomain.StatusOffboarded
		out.Event = EventOffboardingComplete
		out.AuditAction = audit.ActionOffboardingCompleted
	case DerivedRecompute:
		if !tr.Derived.Valid() {
			return out, fmt.Errorf("derived status %q is not a lifecycle status", tr.Derived)
		}
		out.To = tr.Derived
		if out.To != out.From {
			out.Event = derivedEvent(out.To)
			out.AuditAction = audit.ActionStatusChanged
		}
	default:
		return out, fmt.Errorf("unknown transition %q", tr.Kind)
	}

	out.Changed = out.To != out.From
	if !out.Changed {
		return out, nil
	}
	at := tr.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	i.Status = out.To
	i.UpdatedAt = at
	switch out.To {
	case identitydomain.StatusOnboarded:
		i.OnboardedAt = &at
	case identitydomain.StatusOffboarded:
		i.OffboardedAt = &at
	}
	return out, nil
}

func derivedEvent(to identitydomain.Status) EventKind {
	switch to {
	case identitydomain.StatusOnboarded:
		return EventOnboarded
	case identitydomain.StatusOffboardingInProgress:
		return EventOffboardingInitiated
	case identitydomain.StatusOffboarded:
		return EventOffboardingComplete
	}
	return ""
}
