package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/lifecycle"
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig configures a Consumer.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	AdminEmail  string
	MaxAttempts uint
}

// Consumer reads lifecycle events from Kafka and delivers them through a Mailer. Offsets are
// committed after delivery succeeds or is given up on, so delivery is at least once.
type Consumer struct {
	reader      messageReader
	mailer      Mailer
	adminEmail  string
	maxAttempts uint
	newBackOff  func() backoff.BackOff
}

// NewConsumer returns a Consumer reading cfg.Topic as consumer group cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, mailer Mailer) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	return newConsumer(reader, mailer, cfg.AdminEmail, cfg.MaxAttempts)
}

func newConsumer(reader messageReader, mailer Mailer, adminEmail string, maxAttempts uint) *Consumer {
	if maxAttempts == 0 {
		maxAttempts = 5
	}
	return &Consumer{
		reader:      reader,
		mailer:      mailer,
		adminEmail:  adminEmail,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

// Run consumes until ctx is cancelled. It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("worker: kafka fetch error: %v", err)
			continue
		}
		if err := c.Handle(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("worker: giving up on message at offset %d: %v", msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Printf("worker: commit offset %d: %v", msg.Offset, err)
		}
	}
}

// Handle decodes one message and delivers it, retrying transient Mailer failures with
// exponential backoff up to the configured attempt limit. Undecodable or unrenderable
// messages fail immediately.
func (c *Consumer) Handle(ctx context.Context, payload []byte) error {
	var ev lifecycle.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	msg, err := Render(ev, c.adminEmail)
	if err != nil {
		return err
	}
	if msg.To == "" {
		return errors.New("message has no recipient")
	}
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.mailer.Send(ctx, msg)
	},
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Printf("worker: send %s for identity %s failed, retrying in %s: %v", ev.Kind, ev.IdentityID, wait, err)
		}),
	)
	return err
}

// Close closes the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
