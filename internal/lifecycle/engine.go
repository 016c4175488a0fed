// Package lifecycle owns the identity status state machine and every operation that can move it.
//
// Each mutating operation runs in one store transaction that locks the identity row and applies
// its change. Confirm, report, revoke and delete then recompute the derived status and write it;
// assignment leaves the status alone, so an explicit override survives it. Audit entries and
// notification events are collected during the transaction and handed to the Dispatcher only
// after commit.
package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	auditdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/audit/domain"
	grantdomain "github.com/Rohitbatham1306/credential-dashbaord/internal/grant/domain"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/store"
)

const instrumentationName = "github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"

// Actor is the authenticated caller, recorded on audit entries.
type Actor struct {
	ID    string
	Email string
	Role  identitydomain.Role
}

// Result is what a mutating operation returns: the identity after the operation and,
// for grant operations, the grant. Grant is nil after DeleteGrant.
type Result struct {
	Identity *identitydomain.Identity
	Grant    *grantdomain.Grant
	Outcome  Outcome
}

// Engine runs lifecycle operations against a Store.
type Engine struct {
	store       store.Store
	dispatcher  Dispatcher
	now         func() time.Time
	newID       func() string
	tracer      trace.Tracer
	transitions metric.Int64Counter
}

// Option configures an Engine.
type Option func(*Engine)

// WithDispatcher sets where committed side effects go. Without one they are discarded.
func WithDispatcher(d Dispatcher) Option { return func(e *Engine) { e.dispatcher = d } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// WithIDGenerator overrides grant and event id generation, for tests.
func WithIDGenerator(f func() string) Option { return func(e *Engine) { e.newID = f } }

// NewEngine returns an Engine over st. Spans and counters use the global OTel providers.
func NewEngine(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
		tracer: otel.Tracer(instrumentationName),
	}
	for _, o := range opts {
		o(e)
	}
	c, err := otel.Meter(instrumentationName).Int64Counter("lifecycle.transitions",
		metric.WithDescription("Identity status transitions committed, by kind and target status."))
	if err == nil {
		e.transitions = c
	}
	return e
}

// AssignCredential grants credentialTypeID to identityID. The identity must be Pending or Onboarded
// and must not already hold a grant for the type, active or not. The identity status is not
// recomputed; the next grant-level change of the identity does that.
func (e *Engine) AssignCredential(ctx context.Context, actor Actor, identityID, credentialTypeID string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle.AssignCredential",
		trace.WithAttributes(attribute.String("identity.id", identityID), attribute.String("credential_type.id", credentialTypeID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, err := tx.LockIdentity(ctx, identityID)
		if err != nil {
			return err
		}
		if ident == nil {
			return fmt.Errorf("identity %s: %w", identityID, ErrNotFound)
		}
		cred, err := tx.GetCredentialType(ctx, credentialTypeID)
		if err != nil {
			return err
		}
		if cred == nil {
			return fmt.Errorf("credential type %s: %w", credentialTypeID, ErrNotFound)
		}
		if !ident.Status.AcceptsGrants() {
			return fmt.Errorf("cannot assign credentials to identity with status %s: %w", ident.Status, ErrInvalidTransition)
		}
		now := e.now()
		g := &grantdomain.Grant{
			ID:               e.newID(),
			IdentityID:       ident.ID,
			CredentialTypeID: cred.ID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.CreateGrant(ctx, g); err != nil {
			switch {
			case errors.Is(err, store.ErrDuplicate):
				return fmt.Errorf("credential %q already assigned to %s: %w", cred.Name, ident.Email, ErrConflict)
			case errors.Is(err, store.ErrReferenced):
				return fmt.Errorf("credential type %s: %w", credentialTypeID, ErrNotFound)
			}
			return err
		}
		fx.Audits = append(fx.Audits, e.entry(actor, audit.ActionAssign, ident.ID, cred.ID, g.ID, map[string]any{
			"credential": cred.Name, "email": ident.Email,
		}))
		res = Result{Identity: ident, Grant: g, Outcome: Outcome{From: ident.Status, To: ident.Status}}
		return nil
	})
	if errors.Is(err, store.ErrReferenced) {
		// The identity or credential type was removed before the grant committed.
		err = fmt.Errorf("assign %s to %s: %w", credentialTypeID, identityID, ErrNotFound)
	}
	return e.finish(ctx, span, &res, fx, err)
}

// ConfirmGrant marks the grant confirmed and clears its problem flag. The grant must belong to identityID.
func (e *Engine) ConfirmGrant(ctx context.Context, actor Actor, grantID, identityID string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle.ConfirmGrant",
		trace.WithAttributes(attribute.String("grant.id", grantID), attribute.String("identity.id", identityID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, g, err := e.lockGrant(ctx, tx, grantID, identityID)
		if err != nil {
			return err
		}
		now := e.now()
		g.Confirmed = true
		g.Problematic = false
		g.UpdatedAt = now
		if err := tx.UpdateGrant(ctx, g); err != nil {
			return err
		}
		fx.Audits = append(fx.Audits, e.entry(actor, audit.ActionConfirm, ident.ID, g.CredentialTypeID, g.ID, nil))
		out, err := e.recompute(ctx, tx, ident, now)
		if err != nil {
			return err
		}
		e.statusEffects(&fx, actor, ident, out, nil)
		res = Result{Identity: ident, Grant: g, Outcome: out}
		return nil
	})
	return e.finish(ctx, span, &res, fx, err)
}

// ReportProblem flags the grant as problematic and notifies the administrators.
// The confirmed flag is left as it is. The grant must belong to identityID.
func (e *Engine) ReportProblem(ctx context.Context, actor Actor, grantID, identityID, note string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle.ReportProblem",
		trace.WithAttributes(attribute.String("grant.id", grantID), attribute.String("identity.id", identityID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, g, err := e.lockGrant(ctx, tx, grantID, identityID)
		if err != nil {
			return err
		}
		now := e.now()
		g.Problematic = true
		g.UpdatedAt = now
		if err := tx.UpdateGrant(ctx, g); err != nil {
			return err
		}
		credName := ""
		if cred, err := tx.GetCredentialType(ctx, g.CredentialTypeID); err == nil && cred != nil {
			credName = cred.Name
		}
		fx.Audits = append(fx.Audits, e.entry(actor, audit.ActionReportProblem, ident.ID, g.CredentialTypeID, g.ID, map[string]any{
			"credential": credName, "note": note,
		}))
		fx.Events = append(fx.Events, Event{
			ID:             e.newID(),
			Kind:           EventIssueReported,
			IdentityID:     ident.ID,
			Email:          ident.Email,
			Name:           ident.Name,
			GrantID:        g.ID,
			CredentialName: credName,
			Note:           note,
			ActorEmail:     actor.Email,
			OccurredAt:     now,
		})
		out, err := e.recompute(ctx, tx, ident, now)
		if err != nil {
			return err
		}
		e.statusEffects(&fx, actor, ident, out, nil)
		res = Result{Identity: ident, Grant: g, Outcome: out}
		return nil
	})
	return e.finish(ctx, span, &res, fx, err)
}

// RevokeGrant marks the grant inactive. It is permitted in every status.
func (e *Engine) RevokeGrant(ctx context.Context, actor Actor, grantID string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle.RevokeGrant", trace.WithAttributes(attribute.String("grant.id", grantID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, g, err := e.lockGrant(ctx, tx, grantID, "")
		if err != nil {
			return err
		}
		now := e.now()
		g.Inactive = true
		g.UpdatedAt = now
		if err := tx.UpdateGrant(ctx, g); err != nil {
			return err
		}
		fx.Audits = append(fx.Audits, e.entry(actor, audit.ActionRevoke, ident.ID, g.CredentialTypeID, g.ID, nil))
		out, err := e.recompute(ctx, tx, ident, now)
		if err != nil {
			return err
		}
		e.statusEffects(&fx, actor, ident, out, nil)
		res = Result{Identity: ident, Grant: g, Outcome: out}
		return nil
	})
	return e.finish(ctx, span, &res, fx, err)
}

// DeleteGrant removes the grant. Rejected while the owning identity is OffboardingInProgress.
func (e *Engine) DeleteGrant(ctx context.Context, actor Actor, grantID string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle.DeleteGrant", trace.WithAttributes(attribute.String("grant.id", grantID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, g, err := e.lockGrant(ctx, tx, grantID, "")
		if err != nil {
			return err
		}
		if ident.Status == identitydomain.StatusOffboardingInProgress {
			return fmt.Errorf("cannot delete grants of %s while offboarding is in progress: %w", ident.Email, ErrInvalidTransition)
		}
		if err := tx.DeleteGrant(ctx, g.ID); err != nil {
			return err
		}
		fx.Audits = append(fx.Audits, e.entry(actor, audit.ActionDeleteGrant, ident.ID, g.CredentialTypeID, g.ID, nil))
		out, err := e.recompute(ctx, tx, ident, e.now())
		if err != nil {
			return err
		}
		e.statusEffects(&fx, actor, ident, out, nil)
		res = Result{Identity: ident, Outcome: out}
		return nil
	})
	return e.finish(ctx, span, &res, fx, err)
}

// OnboardIdentity sets the identity Onboarded regardless of its grants.
func (e *Engine) OnboardIdentity(ctx context.Context, actor Actor, identityID string) (*Result, error) {
	return e.explicit(ctx, actor, identityID, ExplicitOnboard)
}

// InitiateOffboarding sets the identity OffboardingInProgress regardless of its grants.
func (e *Engine) InitiateOffboarding(ctx context.Context, actor Actor, identityID string) (*Result, error) {
	return e.explicit(ctx, actor, identityID, ExplicitInitiateOffboarding)
}

// CompleteOffboarding deactivates every grant of the identity and sets it Offboarded, in one transaction.
func (e *Engine) CompleteOffboarding(ctx context.Context, actor Actor, identityID string) (*Result, error) {
	return e.explicit(ctx, actor, identityID, ExplicitCompleteOffboarding)
}

func (e *Engine) explicit(ctx context.Context, actor Actor, identityID string, kind TransitionKind) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle."+string(kind), trace.WithAttributes(attribute.String("identity.id", identityID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, err := tx.LockIdentity(ctx, identityID)
		if err != nil {
			return err
		}
		if ident == nil {
			return fmt.Errorf("identity %s: %w", identityID, ErrNotFound)
		}
		now := e.now()
		out, err := Apply(ident, Transition{Kind: kind, At: now})
		if err != nil {
			return err
		}
		var details map[string]any
		if kind == ExplicitCompleteOffboarding {
			n, err := tx.DeactivateGrants(ctx, ident.ID, now)
			if err != nil {
				return err
			}
			details = map[string]any{"deactivated_grants": n}
		}
		if out.Changed {
			if err := tx.SaveIdentityStatus(ctx, ident); err != nil {
				return err
			}
		}
		e.statusEffects(&fx, actor, ident, out, details)
		res = Result{Identity: ident, Outcome: out}
		return nil
	})
	return e.finish(ctx, span, &res, fx, err)
}

// Recompute reapplies the derived status of the identity from its grants. Calling it again with
// no intervening mutation changes nothing and dispatches nothing.
func (e *Engine) Recompute(ctx context.Context, actor Actor, identityID string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "lifecycle.Recompute", trace.WithAttributes(attribute.String("identity.id", identityID)))
	defer span.End()

	var (
		res Result
		fx  Effects
	)
	err := e.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
		ident, err := tx.LockIdentity(ctx, identityID)
		if err != nil {
			return err
		}
		if ident == nil {
			return fmt.Errorf("identity %s: %w", identityID, ErrNotFound)
		}
		out, err := e.recompute(ctx, tx, ident, e.now())
		if err != nil {
			return err
		}
		e.statusEffects(&fx, actor, ident, out, nil)
		res = Result{Identity: ident, Outcome: out}
		return nil
	})
	return e.finish(ctx, span, &res, fx, err)
}

// lockGrant locks the identity owning grantID and returns both as seen under the lock.
// A non-empty ownerID must match the grant's identity.
func (e *Engine) lockGrant(ctx context.Context, tx store.Tx, grantID, ownerID string) (*identitydomain.Identity, *grantdomain.Grant, error) {
	// The owning identity is only known after reading the grant, so read it once
	// unlocked to find the lock, then again under the lock.
	g, err := tx.GetGrant(ctx, grantID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, fmt.Errorf("grant %s: %w", grantID, ErrNotFound)
	}
	if ownerID != "" && g.IdentityID != ownerID {
		return nil, nil, fmt.Errorf("grant %s does not belong to identity %s: %w", grantID, ownerID, ErrUnauthorized)
	}
	ident, err := tx.LockIdentity(ctx, g.IdentityID)
	if err != nil {
		return nil, nil, err
	}
	if ident == nil {
		return nil, nil, fmt.Errorf("identity %s: %w", g.IdentityID, ErrNotFound)
	}
	g, err = tx.GetGrant(ctx, grantID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, fmt.Errorf("grant %s: %w", grantID, ErrNotFound)
	}
	return ident, g, nil
}

// recompute derives the status from the grant aggregate as seen inside tx and applies it.
func (e *Engine) recompute(ctx context.Context, tx store.Tx, ident *identitydomain.Identity, at time.Time) (Outcome, error) {
	counts, err := tx.CountGrants(ctx, ident.ID)
	if err != nil {
		return Outcome{}, err
	}
	out, err := Apply(ident, Transition{Kind: DerivedRecompute, Derived: DeriveFromCounts(counts), At: at})
	if err != nil {
		return out, err
	}
	if out.Changed {
		if err := tx.SaveIdentityStatus(ctx, ident); err != nil {
			return out, err
		}
	}
	return out, nil
}

// statusEffects records the audit entry and event that out calls for.
func (e *Engine) statusEffects(fx *Effects, actor Actor, ident *identitydomain.Identity, out Outcome, details map[string]any) {
	if out.AuditAction != "" {
		if details == nil {
			details = map[string]any{}
		}
		details["from"] = string(out.From)
		details["to"] = string(out.To)
		fx.Audits = append(fx.Audits, e.entry(actor, out.AuditAction, ident.ID, "", "", details))
	}
	if out.Event != "" {
		fx.Events = append(fx.Events, Event{
			ID:         e.newID(),
			Kind:       out.Event,
			IdentityID: ident.ID,
			Email:      ident.Email,
			Name:       ident.Name,
			ActorEmail: actor.Email,
			OccurredAt: ident.UpdatedAt,
		})
	}
}

func (e *Engine) entry(actor Actor, action, identityID, credentialTypeID, grantID string, details map[string]any) *auditdomain.AuditLog {
	d := "{}"
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			d = string(b)
		}
	}
	return &auditdomain.AuditLog{
		ActorEmail:       actor.Email,
		Action:           action,
		Details:          d,
		IdentityID:       identityID,
		CredentialTypeID: credentialTypeID,
		GrantID:          grantID,
		CreatedAt:        e.now(),
	}
}

func (e *Engine) count(ctx context.Context, out Outcome) {
	if e.transitions == nil || !out.Changed {
		return
	}
	e.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(out.Kind)),
		attribute.String("to", string(out.To)),
	))
}

// finish dispatches effects of a committed operation and records the error on the span.
func (e *Engine) finish(ctx context.Context, span trace.Span, res *Result, fx Effects, err error) (*Result, error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.Identity != nil {
		span.SetAttributes(attribute.String("identity.status", string(res.Identity.Status)))
	}
	e.count(ctx, res.Outcome)
	if e.dispatcher != nil && !fx.empty() {
		e.dispatcher.Dispatch(context.WithoutCancel(ctx), fx)
	}
	return res, nil
}
