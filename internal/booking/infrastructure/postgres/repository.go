package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
	"github.com/roomflow/Hotel-Booking-System/pkg/outbox"
)

type BookingRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewBookingRepository(log *slog.Logger, pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{log: log, pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (user_id, room_id, start_date, end_date, status, created_at, request_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		b.UserID, b.RoomID, b.StartDate, b.EndDate, b.Status, b.CreatedAt, b.RequestID,
	).Scan(&b.ID)
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) Get(ctx context.Context, id int64) (domain.Booking, error) {
	var b domain.Booking
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, room_id, start_date, end_date, status, created_at, request_id
		FROM bookings WHERE id=$1`, id,
	).Scan(&b.ID, &b.UserID, &b.RoomID, &b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.RequestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, room_id, start_date, end_date, status, created_at, request_id
		FROM bookings WHERE user_id=$1
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.RoomID, &b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.RequestID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BookingRepository) UpdateStatusWithOutbox(ctx context.Context, id int64, status domain.BookingStatus, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE bookings SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('booking', $1, $2, $3, $4, 'pending')`,
		strconv.FormatInt(id, 10), eventType, payload, traceparent)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type UserRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewUserRepository(log *slog.Logger, pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{log: log, pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1,$2,$3)
		RETURNING id`,
		u.Username, u.PasswordHash, u.Role,
	).Scan(&u.ID)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role FROM users WHERE username=$1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// SeedAdmin creates the bootstrap admin account if it does not exist yet.
func (r *UserRepository) SeedAdmin(ctx context.Context, username, passwordHash string) error {
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1,$2,$3)
		ON CONFLICT (username) DO NOTHING`,
		username, passwordHash, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if ct.RowsAffected() > 0 {
		r.log.Info("bootstrap admin user created", "username", username)
	} else {
		r.log.Info("bootstrap admin user already exists", "username", username)
	}
	return nil
}

type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, traceparent, created_at
		FROM outbox
		WHERE status='pending'
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1`, batchSize)
	if err != nil {
		return nil, err
	}

	var events []outbox.Event
	for rows.Next() {
		var ev outbox.Event
		if err := rows.Scan(&ev.ID, &ev.AggregateType, &ev.AggregateID, &ev.Type, &ev.Payload, &ev.Traceparent, &ev.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		events = append(events, ev)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	_, err = tx.Exec(ctx, `
		UPDATE outbox
		SET status='in_progress', relay_id=$1, lease_until=now() + $2::interval
		WHERE id = ANY($3)`, relayID, lease.String(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent' WHERE id = ANY($1)`, ids)
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='failed', last_error=$2, retry_count=retry_count+1 WHERE id=$1`, id, errMsg)
	return err
}
