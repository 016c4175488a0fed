// Worker consumes lifecycle events from Kafka and delivers the resulting emails.
// Set KAFKA_BROKERS, NOTIFY_KAFKA_TOPIC, KAFKA_GROUP_ID and ADMIN_EMAIL.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rohitbatham1306/credential-dashbaord/internal/config"
	"github.com/Rohitbatham1306/credential-dashbaord/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}

	consumer := notify.NewConsumer(notify.ConsumerConfig{
		Brokers:     brokers,
		Topic:       cfg.NotifyKafkaTopic,
		GroupID:     cfg.KafkaGroupID,
		AdminEmail:  cfg.AdminEmail,
		MaxAttempts: uint(cfg.NotifyMaxAttempts),
	}, notify.LogMailer{})
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker: consuming %s (group %s)", cfg.NotifyKafkaTopic, cfg.KafkaGroupID)
	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("worker: %v", err)
	}
	log.Println("worker: stopped")
}
