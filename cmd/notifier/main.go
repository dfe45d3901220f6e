package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"dinehall/internal/notifier"
	"dinehall/pkg/config"
	"dinehall/pkg/kafka"
	kafka_config "dinehall/pkg/kafka/config"

	"github.com/joho/godotenv"
)

const ServiceName = "notifier"

func main() {
	// .env is only present in local development
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Notifier service")

	n := notifier.New(cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		cfg.ReservationTopic,
		cfg.NotifierGroupID,
		cfg.ReservationDLQTopic,
		n.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize consumer", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Warn("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
