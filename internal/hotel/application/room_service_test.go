package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
	"github.com/roomflow/Hotel-Booking-System/pkg/idempotency"
	"github.com/roomflow/Hotel-Booking-System/pkg/logging"
)

type fakeRoomRepo struct {
	mu       sync.Mutex
	nextID   int64
	rooms    map[int64]domain.Room
	getCalls int
}

func newFakeRoomRepo(rooms ...domain.Room) *fakeRoomRepo {
	r := &fakeRoomRepo{nextID: 100, rooms: make(map[int64]domain.Room)}
	for _, room := range rooms {
		r.rooms[room.ID] = room
	}
	return r
}

func (r *fakeRoomRepo) Create(_ context.Context, room domain.Room) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.ID = r.nextID
	r.nextID++
	r.rooms[room.ID] = room
	return room, nil
}

func (r *fakeRoomRepo) Get(_ context.Context, id int64) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	room, ok := r.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (r *fakeRoomRepo) ListAvailable(_ context.Context) ([]domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Room
	for _, room := range r.rooms {
		if room.Available {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) ListRecommended(ctx context.Context) ([]domain.Room, error) {
	return r.ListAvailable(ctx)
}

func (r *fakeRoomRepo) UpdateTimesBooked(_ context.Context, id int64, timesBooked int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	room.TimesBooked = timesBooked
	r.rooms[id] = room
	return nil
}

type fakeHotelRepo struct {
	hotels map[int64]domain.Hotel
}

func (r *fakeHotelRepo) Create(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.ID = int64(len(r.hotels) + 1)
	r.hotels[h.ID] = h
	return h, nil
}

func (r *fakeHotelRepo) Get(_ context.Context, id int64) (domain.Hotel, error) {
	h, ok := r.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	return h, nil
}

func (r *fakeHotelRepo) List(_ context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	for _, h := range r.hotels {
		out = append(out, h)
	}
	return out, nil
}

func (r *fakeHotelRepo) Count(_ context.Context) (int, error) { return len(r.hotels), nil }

func newRoomService(rooms ...domain.Room) (*RoomService, *fakeRoomRepo) {
	repo := newFakeRoomRepo(rooms...)
	hotels := &fakeHotelRepo{hotels: map[int64]domain.Hotel{1: {ID: 1, Name: "Grand Hotel"}}}
	svc := NewRoomService(logging.New("test"), repo, hotels, idempotency.NewMemoryStore())
	return svc, repo
}

func TestRoomService_ConfirmAvailability(t *testing.T) {
	t.Parallel()

	t.Run("available room confirms", func(t *testing.T) {
		svc, _ := newRoomService(domain.Room{ID: 1, HotelID: 1, Number: "101", Available: true})

		ok, err := svc.ConfirmAvailability(context.Background(), 1, "req-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatalf("expected confirmation")
		}
	})

	t.Run("unavailable room declines and marks nothing", func(t *testing.T) {
		svc, _ := newRoomService(domain.Room{ID: 1, HotelID: 1, Number: "101", Available: false})

		ok, err := svc.ConfirmAvailability(context.Background(), 1, "req-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected decline")
		}

		// The request id must not be marked: a later retry re-checks the room.
		ok, err = svc.ConfirmAvailability(context.Background(), 1, "req-1")
		if err != nil || ok {
			t.Fatalf("retry against unavailable room must decline again, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, _ := newRoomService()
		if _, err := svc.ConfirmAvailability(context.Background(), 77, "req-1"); !errors.Is(err, domain.ErrRoomNotFound) {
			t.Fatalf("expected ErrRoomNotFound, got %v", err)
		}
	})

	t.Run("retried confirm short-circuits without re-checking", func(t *testing.T) {
		svc, repo := newRoomService(domain.Room{ID: 1, HotelID: 1, Number: "101", Available: true})

		ok, err := svc.ConfirmAvailability(context.Background(), 1, "abc-123")
		if err != nil || !ok {
			t.Fatalf("first confirm: ok=%v err=%v", ok, err)
		}
		lookups := repo.getCalls

		ok, err = svc.ConfirmAvailability(context.Background(), 1, "abc-123")
		if err != nil || !ok {
			t.Fatalf("second confirm: ok=%v err=%v", ok, err)
		}
		if repo.getCalls != lookups {
			t.Fatalf("retried confirm must not re-read the room, lookups went %d -> %d", lookups, repo.getCalls)
		}
	})
}

func TestRoomService_IncrementTimesBooked(t *testing.T) {
	t.Parallel()

	t.Run("increments exactly once per request id", func(t *testing.T) {
		svc, repo := newRoomService(domain.Room{ID: 1, HotelID: 1, Number: "101", Available: true, TimesBooked: 4})

		for range 3 {
			if err := svc.IncrementTimesBooked(context.Background(), 1, "req-9"); err != nil {
				t.Fatalf("increment: %v", err)
			}
		}
		room, _ := repo.Get(context.Background(), 1)
		if room.TimesBooked != 5 {
			t.Fatalf("expected counter 5 after retried increments, got %d", room.TimesBooked)
		}
	})

	t.Run("increment key does not collide with confirm key", func(t *testing.T) {
		svc, repo := newRoomService(domain.Room{ID: 1, HotelID: 1, Number: "101", Available: true})

		if ok, err := svc.ConfirmAvailability(context.Background(), 1, "req-1"); err != nil || !ok {
			t.Fatalf("confirm: ok=%v err=%v", ok, err)
		}
		if err := svc.IncrementTimesBooked(context.Background(), 1, "req-1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
		room, _ := repo.Get(context.Background(), 1)
		if room.TimesBooked != 1 {
			t.Fatalf("confirm marker must not suppress the increment, counter=%d", room.TimesBooked)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, _ := newRoomService()
		if err := svc.IncrementTimesBooked(context.Background(), 77, "req-1"); !errors.Is(err, domain.ErrRoomNotFound) {
			t.Fatalf("expected ErrRoomNotFound, got %v", err)
		}
	})
}

func TestRoomService_ReleaseSlot(t *testing.T) {
	t.Parallel()

	t.Run("release is a validated no-op", func(t *testing.T) {
		svc, repo := newRoomService(domain.Room{ID: 1, HotelID: 1, Number: "101", Available: true, TimesBooked: 2})

		if err := svc.ReleaseSlot(context.Background(), 1, "req-1"); err != nil {
			t.Fatalf("release: %v", err)
		}
		room, _ := repo.Get(context.Background(), 1)
		if !room.Available || room.TimesBooked != 2 {
			t.Fatalf("release must not mutate the room, got %+v", room)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, _ := newRoomService()
		if err := svc.ReleaseSlot(context.Background(), 77, "req-1"); !errors.Is(err, domain.ErrRoomNotFound) {
			t.Fatalf("expected ErrRoomNotFound, got %v", err)
		}
	})
}

func TestRoomService_CreateRoom(t *testing.T) {
	t.Parallel()

	svc, _ := newRoomService()

	room, err := svc.CreateRoom(context.Background(), 1, "305")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if !room.Available || room.TimesBooked != 0 {
		t.Fatalf("new rooms start available with a zero counter, got %+v", room)
	}

	if _, err := svc.CreateRoom(context.Background(), 42, "101"); !errors.Is(err, domain.ErrHotelNotFound) {
		t.Fatalf("expected ErrHotelNotFound, got %v", err)
	}
}
