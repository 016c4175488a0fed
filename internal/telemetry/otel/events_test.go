package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
)

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec otellog.Record
}

func (r *recordCapture) Emit(_ context.Context, rec otellog.Record) {
	r.rec = rec
}

func attributes(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestNewEventSink_NilProvider(t *testing.T) {
	s := NewEventSink(nil)
	if err := s.Publish(context.Background(), lifecycle.Event{Kind: lifecycle.EventOnboarded}); err != nil {
		t.Errorf("Publish on nil provider sink: %v", err)
	}
}

func TestNewEventSink_RealProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	if err := NewEventSink(provider).Publish(context.Background(), lifecycle.Event{Kind: lifecycle.EventOnboarded}); err != nil {
		t.Errorf("Publish: %v", err)
	}
}

func TestEventSink_AttributeMapping(t *testing.T) {
	capture := &recordCapture{}
	s := newEventSinkWithLogger(capture)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := lifecycle.Event{
		ID: "ev-1", Kind: lifecycle.EventIssueReported, IdentityID: "id-1", Email: "alice@company.com",
		GrantID: "g-1", CredentialName: "VPN", Note: "token expired", OccurredAt: at,
	}
	if err := s.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	rec := capture.rec
	if !rec.Timestamp().Equal(at) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), at)
	}
	if rec.Severity() != otellog.SeverityWarn {
		t.Errorf("severity = %v, want warn", rec.Severity())
	}
	if rec.Body().AsString() != string(lifecycle.EventIssueReported) {
		t.Errorf("body = %q", rec.Body().AsString())
	}
	want := map[string]string{
		"event.id": "ev-1", "event.kind": "issueReported", "identity.id": "id-1",
		"identity.email": "alice@company.com", "grant.id": "g-1", "credential.name": "VPN", "note": "token expired",
	}
	attrs := attributes(rec)
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
	if _, ok := attrs["actor.email"]; ok {
		t.Error("empty actor email should not be recorded")
	}
}

func TestEventSink_ZeroTimestamp(t *testing.T) {
	capture := &recordCapture{}
	before := time.Now().UTC()
	if err := newEventSinkWithLogger(capture).Publish(context.Background(), lifecycle.Event{Kind: lifecycle.EventOnboarded}); err != nil {
		t.Fatal(err)
	}
	if ts := capture.rec.Timestamp(); ts.Before(before) {
		t.Errorf("timestamp = %v, want now", ts)
	}
}
