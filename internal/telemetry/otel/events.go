package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
)

// recordEmitter is the part of otellog.Logger the sink uses.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// EventSink writes lifecycle events as OTel log records. It satisfies notify.Sink.
type EventSink struct {
	logger recordEmitter
}

// NewEventSink returns a sink logging through provider. A nil provider yields a sink that drops everything.
func NewEventSink(provider *sdklog.LoggerProvider) *EventSink {
	if provider == nil {
		return &EventSink{}
	}
	return &EventSink{logger: provider.Logger("credential-dashboard.lifecycle")}
}

func newEventSinkWithLogger(l recordEmitter) *EventSink {
	return &EventSink{logger: l}
}

func (s *EventSink) Name() string { return "otel-log" }

// Publish converts ev to a log record. Empty fields are left out of the attributes.
func (s *EventSink) Publish(ctx context.Context, ev lifecycle.Event) error {
	if s.logger == nil {
		return nil
	}
	rec := otellog.Record{}
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(time.Now().UTC())
	rec.SetSeverity(severity(ev.Kind))
	rec.SetSeverityText(severity(ev.Kind).String())
	rec.SetBody(otellog.StringValue(string(ev.Kind)))
	for _, kv := range []struct{ k, v string }{
		{"event.id", ev.ID},
		{"event.kind", string(ev.Kind)},
		{"identity.id", ev.IdentityID},
		{"identity.email", ev.Email},
		{"grant.id", ev.GrantID},
		{"credential.name", ev.CredentialName},
		{"actor.email", ev.ActorEmail},
		{"note", ev.Note},
	} {
		if kv.v != "" {
			rec.AddAttributes(otellog.String(kv.k, kv.v))
		}
	}
	s.logger.Emit(ctx, rec)
	return nil
}

func severity(kind lifecycle.EventKind) otellog.Severity {
	switch kind {
	case lifecycle.EventIssueReported:
		return otellog.SeverityWarn
	case lifecycle.EventOffboardingComplete, lifecycle.EventOffboardingInitiated:
		return otellog.SeverityInfo2
	}
	return otellog.SeverityInfo
}
