package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
	bookingpg "github.com/roomflow/Hotel-Booking-System/internal/booking/infrastructure/postgres"
	"github.com/roomflow/Hotel-Booking-System/pkg/idempotency"
	"github.com/roomflow/Hotel-Booking-System/pkg/logging"
)

func setupEnv(t *testing.T) *Env {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	env, err := setupRecover(context.Background())
	if err != nil {
		t.Skipf("container runtime unavailable: %v", err)
	}
	t.Cleanup(func() { env.Teardown(context.Background()) })
	return env
}

// setupRecover calls Setup, converting panics from testcontainers' docker
// host discovery into an error so the caller can skip the test.
func setupRecover(ctx context.Context) (env *Env, err error) {
	defer func() {
		if r := recover(); r != nil {
			env, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return Setup(ctx)
}

func TestBookingRepository_RoundTrip(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, env.PGURL)
	if err != nil {
		t.Fatalf("pg connect: %v", err)
	}
	defer pool.Close()

	if err := bookingpg.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("schema: %v", err)
	}

	log := logging.New("test")
	users := bookingpg.NewUserRepository(log, pool)
	bookings := bookingpg.NewBookingRepository(log, pool)
	store := bookingpg.NewOutboxStore(log, pool)

	u, err := users.Create(ctx, domain.User{Username: "alice", PasswordHash: "x", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	b, err := bookings.Create(ctx, domain.Booking{
		UserID:    u.ID,
		RoomID:    1,
		StartDate: now,
		EndDate:   now.Add(48 * time.Hour),
		Status:    domain.StatusPending,
		CreatedAt: now,
		RequestID: "req-it-1",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	got, err := bookings.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if got.Status != domain.StatusPending || got.RequestID != "req-it-1" {
		t.Fatalf("unexpected booking %+v", got)
	}

	// Status change stages an outbox event in the same transaction.
	if err := bookings.UpdateStatusWithOutbox(ctx, b.ID, domain.StatusConfirmed,
		domain.EventBookingConfirmed, []byte(`{"booking_id":1}`), ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	events, err := store.LockBatch(ctx, "test-relay", 10, 5*time.Second)
	if err != nil {
		t.Fatalf("lock batch: %v", err)
	}
	if len(events) != 1 || events[0].Type != domain.EventBookingConfirmed {
		t.Fatalf("unexpected batch %+v", events)
	}

	// A second relay must not pick up a leased event.
	again, err := store.LockBatch(ctx, "other-relay", 10, 5*time.Second)
	if err != nil {
		t.Fatalf("second lock batch: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("leased events were handed out twice: %+v", again)
	}

	if err := store.MarkSent(ctx, []int64{events[0].ID}); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
}

func TestRedisStore_Tracker(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	rdb := goredis.NewClient(&goredis.Options{Addr: env.RedisAddr})
	defer rdb.Close()
	tracker := idempotency.NewRedisStore(rdb, time.Minute)

	ok, err := tracker.IsProcessed(ctx, "req-1")
	if err != nil || ok {
		t.Fatalf("fresh key: ok=%v err=%v", ok, err)
	}
	if err := tracker.MarkProcessed(ctx, "req-1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if ok, _ := tracker.IsProcessed(ctx, "req-1"); !ok {
		t.Fatal("marked key must read as processed")
	}
	if err := tracker.RemoveProcessed(ctx, "req-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ok, _ := tracker.IsProcessed(ctx, "req-1"); ok {
		t.Fatal("removed key must read as unprocessed")
	}

	seen, err := tracker.Seen(ctx, "offset-1")
	if err != nil || seen {
		t.Fatalf("first Seen: seen=%v err=%v", seen, err)
	}
	if seen, _ := tracker.Seen(ctx, "offset-1"); !seen {
		t.Fatal("second Seen must report a duplicate")
	}
}
