package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	identitydomain "github.com/Rohitbatham1306/credential-dashbaord/internal/identity/domain"
)

func TestApply_ExplicitGuards(t *testing.T) {
	tests := []struct {
		kind    TransitionKind
		from    identitydomain.Status
		wantErr error
		wantTo  identitydomain.Status
	}{
		{ExplicitOnboard, identitydomain.StatusPending, nil, identitydomain.StatusOnboarded},
		{ExplicitOnboard, identitydomain.StatusOffboarded, nil, identitydomain.StatusOnboarded},
		{ExplicitOnboard, identitydomain.StatusOnboarded, ErrConflict, ""},
		{ExplicitInitiateOffboarding, identitydomain.StatusOnboarded, nil, identitydomain.StatusOffboardingInProgress},
		{ExplicitInitiateOffboarding, identitydomain.StatusOffboarded, ErrConflict, ""},
		{ExplicitCompleteOffboarding, identitydomain.StatusOffboardingInProgress, nil, identitydomain.StatusOffboarded},
		{ExplicitCompleteOffboarding, identitydomain.StatusOffboarded, ErrConflict, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.from), func(t *testing.T) {
			i := &identitydomain.Identity{ID: "id-1", Status: tt.from}
			out, err := Apply(i, Transition{Kind: tt.kind, At: time.Now()})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if i.Status != tt.from {
					t.Errorf("status changed to %s on rejected transition", i.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if i.Status != tt.wantTo || out.To != tt.wantTo {
				t.Errorf("status = %s (outcome %s), want %s", i.Status, out.To, tt.wantTo)
			}
			if out.Event == "" || out.AuditAction == "" {
				t.Errorf("explicit transition must carry event and audit, got %+v", out)
			}
		})
	}
}

func TestApply_Timestamps(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	i := &identitydomain.Identity{ID: "id-1", Status: identitydomain.StatusPending}
	if _, err := Apply(i, Transition{Kind: ExplicitOnboard, At: at}); err != nil {
		t.Fatal(err)
	}
	if i.OnboardedAt == nil || !i.OnboardedAt.Equal(at) {
		t.Errorf("OnboardedAt = %v, want %v", i.OnboardedAt, at)
	}
	if i.OffboardedAt != nil {
		t.Error("OffboardedAt set on onboard")
	}
	later := at.Add(time.Hour)
	if _, err := Apply(i, Transition{Kind: DerivedRecompute, Derived: identitydomain.StatusOffboarded, At: later}); err != nil {
		t.Fatal(err)
	}
	if i.OffboardedAt == nil || !i.OffboardedAt.Equal(later) {
		t.Errorf("OffboardedAt = %v, want %v", i.OffboardedAt, later)
	}
}

func TestApply_DerivedNoChange_NoEffects(t *testing.T) {
	i := &identitydomain.Identity{ID: "id-1", Status: identitydomain.StatusOnboarded}
	out, err := Apply(i, Transition{Kind: DerivedRecompute, Derived: identitydomain.StatusOnboarded})
	if err != nil {
		t.Fatal(err)
	}
	if out.Changed || out.Event != "" || out.AuditAction != "" {
		t.Errorf("outcome = %+v, want no change and no effects", out)
	}
}

func TestApply_DerivedChange_Effects(t *testing.T) {
	tests := []struct {
		to        identitydomain.Status
		wantEvent EventKind
	}{
		{identitydomain.StatusOnboarded, EventOnboarded},
		{identitydomain.StatusOffboardingInProgress, EventOffboardingInitiated},
		{identitydomain.StatusOffboarded, EventOffboardingComplete},
	}
	for _, tt := range tests {
		i := &identitydomain.Identity{ID: "id-1", Status: identitydomain.StatusPending}
		out, err := Apply(i, Transition{Kind: DerivedRecompute, Derived: tt.to})
		if err != nil {
			t.Fatal(err)
		}
		if out.Event != tt.wantEvent {
			t.Errorf("to %s: event = %q, want %q", tt.to, out.Event, tt.wantEvent)
		}
		if out.AuditAction != audit.ActionStatusChanged {
			t.Errorf("to %s: audit = %q, want %q", tt.to, out.AuditAction, audit.ActionStatusChanged)
		}
	}

	i := &identitydomain.Identity{ID: "id-1", Status: identitydomain.StatusOnboarded}
	out, _ := Apply(i, Transition{Kind: DerivedRecompute, Derived: identitydomain.StatusPending})
	if out.Event != "" {
		t.Errorf("back to Pending should not notify, got %q", out.Event)
	}
}

func TestApply_RejectsUnknown(t *testing.T) {
	i := &identitydomain.Identity{ID: "id-1", Status: identitydomain.StatusPending}
	if _, err := Apply(i, Transition{Kind: "Teleport"}); err == nil {
		t.Error("unknown kind should fail")
	}
	if _, err := Apply(i, Transition{Kind: DerivedRecompute, Derived: "Limbo"}); err == nil {
		t.Error("invalid derived status should fail")
	}
}
