package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
)

type RoomRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRoomRepository(log *slog.Logger, pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{log: log, pool: pool}
}

func (r *RoomRepository) Create(ctx context.Context, room domain.Room) (domain.Room, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (hotel_id, number, available, times_booked)
		VALUES ($1,$2,$3,$4)
		RETURNING id`,
		room.HotelID, room.Number, room.Available, room.TimesBooked,
	).Scan(&room.ID)
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r *RoomRepository) Get(ctx context.Context, id int64) (domain.Room, error) {
	var room domain.Room
	err := r.pool.QueryRow(ctx, `
		SELECT id, hotel_id, number, available, times_booked FROM rooms WHERE id=$1`, id,
	).Scan(&room.ID, &room.HotelID, &room.Number, &room.Available, &room.TimesBooked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r *RoomRepository) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, `
		SELECT id, hotel_id, number, available, times_booked
		FROM rooms WHERE available ORDER BY id`)
}

func (r *RoomRepository) ListRecommended(ctx context.Context) ([]domain.Room, error) {
	return r.list(ctx, `
		SELECT id, hotel_id, number, available, times_booked
		FROM rooms WHERE available ORDER BY times_booked, id`)
}

func (r *RoomRepository) list(ctx context.Context, query string) ([]domain.Room, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.HotelID, &room.Number, &room.Available, &room.TimesBooked); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *RoomRepository) UpdateTimesBooked(ctx context.Context, id int64, timesBooked int) error {
	ct, err := r.pool.Exec(ctx, `UPDATE rooms SET times_booked=$2 WHERE id=$1`, id, timesBooked)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

type HotelRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewHotelRepository(log *slog.Logger, pool *pgxpool.Pool) *HotelRepository {
	return &HotelRepository{log: log, pool: pool}
}

func (r *HotelRepository) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hotels (name, address) VALUES ($1,$2) RETURNING id`,
		h.Name, h.Address,
	).Scan(&h.ID)
	if err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *HotelRepository) Get(ctx context.Context, id int64) (domain.Hotel, error) {
	var h domain.Hotel
	err := r.pool.QueryRow(ctx, `SELECT id, name, address FROM hotels WHERE id=$1`, id,
	).Scan(&h.ID, &h.Name, &h.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *HotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, address FROM hotels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HotelRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM hotels`).Scan(&n)
	return n, err
}
