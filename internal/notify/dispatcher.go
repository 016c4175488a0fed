// Package notify delivers lifecycle side effects after commit: audit entries to the audit log,
// events to sinks such as Kafka and OTel logs, and (in the worker) rendered messages to a Mailer.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/audit"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
)

const (
	DefaultQueueSize = 256
	DefaultWorkers   = 4

	// publishTimeout bounds a single sink delivery.
	publishTimeout = 5 * time.Second
)

// Sink receives lifecycle events. Errors are logged by the Dispatcher and never retried there.
type Sink interface {
	Name() string
	Publish(ctx context.Context, ev lifecycle.Event) error
}

type job struct {
	ctx context.Context
	fx  lifecycle.Effects
}

// Dispatcher is a lifecycle.Dispatcher backed by a bounded queue and a fixed worker pool.
// Dispatch never blocks: when the queue is full the effects are dropped and counted.
type Dispatcher struct {
	auditLog audit.AuditLogger
	sinks    []Sink
	workers  int

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup

	dropped   metric.Int64Counter
	published metric.Int64Counter
}

// NewDispatcher returns a Dispatcher writing audits to auditLog (may be nil) and events to sinks.
// Call Start before dispatching and Close on shutdown.
func NewDispatcher(auditLog audit.AuditLogger, sinks []Sink, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	d := &Dispatcher{
		auditLog: auditLog,
		sinks:    sinks,
		workers:  workers,
		queue:    make(chan job, queueSize),
	}
	meter := otel.Meter("github.com/Rohitbatham1306/credential-dashbaord/internal/notify")
	if c, err := meter.Int64Counter("notify.dropped", metric.WithDescription("Effects dropped because the dispatch queue was full.")); err == nil {
		d.dropped = c
	}
	if c, err := meter.Int64Counter("notify.published", metric.WithDescription("Events delivered to a sink, by sink and result.")); err == nil {
		d.published = c
	}
	return d
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

// Dispatch enqueues fx. It returns immediately; after Close it drops everything.
// Delivery keeps ctx's values (trace, client IP) but not its cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, fx lifecycle.Effects) {
	ctx = context.WithoutCancel(ctx)
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("notify: dispatcher closed, dropping %d audits and %d events", len(fx.Audits), len(fx.Events))
		return
	}
	select {
	case d.queue <- job{ctx: ctx, fx: fx}:
	default:
		log.Printf("notify: queue full, dropping %d audits and %d events", len(fx.Audits), len(fx.Events))
		if d.dropped != nil {
			d.dropped.Add(ctx, 1)
		}
	}
}

// Close stops accepting effects and waits for queued ones to drain, or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notify: recovered from panic in delivery: %v", r)
		}
	}()
	if d.auditLog != nil {
		for _, entry := range j.fx.Audits {
			d.auditLog.Log(j.ctx, entry)
		}
	}
	for _, ev := range j.fx.Events {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(j.ctx, publishTimeout)
			err := s.Publish(ctx, ev)
			cancel()
			result := "ok"
			if err != nil {
				result = "error"
				log.Printf("notify: %s publish %s for identity %s failed: %v", s.Name(), ev.Kind, ev.IdentityID, err)
			}
			if d.published != nil {
				d.published.Add(j.ctx, 1, metric.WithAttributes(
					attribute.String("sink", s.Name()),
					attribute.String("kind", string(ev.Kind)),
					attribute.String("result", result),
				))
			}
		}
	}
}

var _ lifecycle.Dispatcher = (*Dispatcher)(nil)
