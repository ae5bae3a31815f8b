package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomflow/Hotel-Booking-System/pkg/config"
	"github.com/roomflow/Hotel-Booking-System/pkg/logging"
	"github.com/roomflow/Hotel-Booking-System/pkg/outbox"
	"github.com/roomflow/Hotel-Booking-System/pkg/shutdown"
	"github.com/roomflow/Hotel-Booking-System/pkg/tracing"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/application"
	"github.com/roomflow/Hotel-Booking-System/internal/booking/infrastructure/hotelclient"
	bookinghttp "github.com/roomflow/Hotel-Booking-System/internal/booking/infrastructure/http"
	bookingkafka "github.com/roomflow/Hotel-Booking-System/internal/booking/infrastructure/kafka"
	bookingpg "github.com/roomflow/Hotel-Booking-System/internal/booking/infrastructure/postgres"
)

func main() {
	_ = godotenv.Load()
	log := logging.New("booking-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.LoadBooking()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "booking-service", cfg.OTLPEndpoint, log)
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

	if err := bookingpg.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	repo := bookingpg.NewBookingRepository(log, pool)
	users := bookingpg.NewUserRepository(log, pool)
	store := bookingpg.NewOutboxStore(log, pool)

	if err := seedAdmin(ctx, users, cfg); err != nil {
		log.Error("admin bootstrap failed", "err", err)
		os.Exit(1)
	}

	// Outbox relay
	writer := bookingkafka.NewWriter([]string{cfg.KafkaAddr})
	defer writer.Close()
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, store, dispatch, "booking-service-relay")
	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("relay stopped with error", "err", err)
		}
	}()

	hotel := hotelclient.New(log, cfg.HotelServiceURL)
	svc := application.NewService(log, repo, hotel)
	userSvc := application.NewUserService(log, users)
	handler := bookinghttp.NewHandler(log, svc, userSvc,
		[]byte(cfg.JWTSecret), time.Duration(cfg.JWTTTLMin)*time.Minute)

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
	log.Info("booking-service shutdown complete")
}

func seedAdmin(ctx context.Context, users *bookingpg.UserRepository, cfg config.Booking) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.SeedAdmin(ctx, cfg.AdminUser, string(hash))
}
