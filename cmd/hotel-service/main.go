package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/roomflow/Hotel-Booking-System/pkg/config"
	"github.com/roomflow/Hotel-Booking-System/pkg/idempotency"
	"github.com/roomflow/Hotel-Booking-System/pkg/logging"
	"github.com/roomflow/Hotel-Booking-System/pkg/shutdown"
	"github.com/roomflow/Hotel-Booking-System/pkg/tracing"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/application"
	hotelhttp "github.com/roomflow/Hotel-Booking-System/internal/hotel/infrastructure/http"
	hotelpg "github.com/roomflow/Hotel-Booking-System/internal/hotel/infrastructure/postgres"
)

func main() {
	_ = godotenv.Load()
	log := logging.New("hotel-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.LoadHotel()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "hotel-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := hotelpg.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	hotels := hotelpg.NewHotelRepository(log, pool)
	rooms := hotelpg.NewRoomRepository(log, pool)
	if err := hotelpg.Seed(ctx, log, hotels, rooms); err != nil {
		log.Error("bootstrap failed", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	tracker := idempotency.NewRedisStore(rdb, time.Duration(cfg.IdempotencyTTLMin)*time.Minute)

	roomSvc := application.NewRoomService(log, rooms, hotels, tracker)
	hotelSvc := application.NewHotelService(log, hotels)
	handler := hotelhttp.NewHandler(log, roomSvc, hotelSvc)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("hotel-service shutdown complete")
}
