package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"roombook/internal/events"
	"roombook/internal/notifications"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
)

const (
	ServiceName   = "roombook-notifier"
	consumerGroup = "roombook-notifications"
)

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled {
		cfg.Log.Fatal("Kafka must be enabled for the notifier; set KAFKA_ENABLED=true")
	}

	notifier := notifications.NewNotifier(cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		events.TopicBookingEvents,
		consumerGroup,
		events.TopicDLQ,
		notifier.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notification consumer",
		"topic", events.TopicBookingEvents,
		"group", consumerGroup,
		"brokers", kafkaCfg.Brokers,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}
	cfg.Log.Info("Notification consumer stopped")
}
