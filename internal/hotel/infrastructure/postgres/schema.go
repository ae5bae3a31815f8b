package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS hotels (
	id      BIGSERIAL PRIMARY KEY,
	name    TEXT NOT NULL,
	address TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id           BIGSERIAL PRIMARY KEY,
	hotel_id     BIGINT NOT NULL REFERENCES hotels(id),
	number       TEXT NOT NULL,
	available    BOOLEAN NOT NULL DEFAULT true,
	times_booked INT NOT NULL DEFAULT 0
);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

// Seed creates demo hotels and rooms on an empty database.
func Seed(ctx context.Context, log *slog.Logger, hotels *HotelRepository, rooms *RoomRepository) error {
	n, err := hotels.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("bootstrap skipped, hotels already exist")
		return nil
	}

	grand, err := hotels.Create(ctx, domain.Hotel{Name: "Grand Hotel", Address: "123 Main Street, Moscow"})
	if err != nil {
		return err
	}
	cozy, err := hotels.Create(ctx, domain.Hotel{Name: "Cozy Inn", Address: "456 Park Avenue, St. Petersburg"})
	if err != nil {
		return err
	}

	for i := 101; i <= 105; i++ {
		if _, err := rooms.Create(ctx, domain.Room{HotelID: grand.ID, Number: fmt.Sprint(i), Available: true}); err != nil {
			return err
		}
	}
	for i := 201; i <= 203; i++ {
		if _, err := rooms.Create(ctx, domain.Room{HotelID: cozy.ID, Number: fmt.Sprint(i), Available: true}); err != nil {
			return err
		}
	}

	log.Info("bootstrap complete", "hotels", 2, "rooms", 8)
	return nil
}
