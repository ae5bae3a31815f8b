package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/roomflow/Hotel-Booking-System/internal/notification/worker"
	"github.com/roomflow/Hotel-Booking-System/pkg/config"
	"github.com/roomflow/Hotel-Booking-System/pkg/idempotency"
	"github.com/roomflow/Hotel-Booking-System/pkg/logging"
	"github.com/roomflow/Hotel-Booking-System/pkg/shutdown"
	"github.com/roomflow/Hotel-Booking-System/pkg/tracing"
)

func main() {
	_ = godotenv.Load()
	log := logging.New("notification-worker")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "notification-worker", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	dedup := idempotency.NewRedisStore(rdb, 24*time.Hour)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaAddr},
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	defer reader.Close()

	w := worker.New(log, reader, dedup, worker.NewLogNotifier(log))
	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("notification-worker shutdown complete")
}
