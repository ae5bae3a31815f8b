package application

import (
	"context"
	"log/slog"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
	"github.com/roomflow/Hotel-Booking-System/pkg/idempotency"
)

// The increment operation deduplicates under its own key so a retried
// increment does not collide with the confirm marker of the same request.
const incrementKeySuffix = "-increment"

type RoomService struct {
	log     *slog.Logger
	rooms   RoomRepository
	hotels  HotelRepository
	tracker idempotency.Tracker
}

func NewRoomService(log *slog.Logger, rooms RoomRepository, hotels HotelRepository, tracker idempotency.Tracker) *RoomService {
	return &RoomService{log: log, rooms: rooms, hotels: hotels, tracker: tracker}
}

// ConfirmAvailability reports whether the room can be booked. A request id
// that was already applied short-circuits to true without re-reading the
// room, so a retried confirm sees the answer its first delivery produced.
func (s *RoomService) ConfirmAvailability(ctx context.Context, roomID int64, requestID string) (bool, error) {
	processed, err := s.tracker.IsProcessed(ctx, requestID)
	if err != nil {
		return false, err
	}
	if processed {
		s.log.Info("request already processed, returning cached result", "request_id", requestID)
		return true, nil
	}

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !room.Available {
		s.log.Warn("room not available", "room_id", roomID, "request_id", requestID)
		return false, nil
	}

	if err := s.tracker.MarkProcessed(ctx, requestID); err != nil {
		return false, err
	}
	s.log.Info("availability confirmed", "room_id", roomID, "request_id", requestID)
	return true, nil
}

// ReleaseSlot undoes a tentative hold. Confirmation takes no hold today, so
// this only validates the room and logs.
// TODO: mutate hold state here once confirm actually reserves the slot.
func (s *RoomService) ReleaseSlot(ctx context.Context, roomID int64, requestID string) error {
	if _, err := s.rooms.Get(ctx, roomID); err != nil {
		return err
	}
	s.log.Info("slot released", "room_id", roomID, "request_id", requestID)
	return nil
}

// IncrementTimesBooked bumps the room's usage counter exactly once per
// request id, no matter how often the call is retried.
func (s *RoomService) IncrementTimesBooked(ctx context.Context, roomID int64, requestID string) error {
	key := requestID + incrementKeySuffix
	processed, err := s.tracker.IsProcessed(ctx, key)
	if err != nil {
		return err
	}
	if processed {
		s.log.Info("increment already applied, skipping", "request_id", requestID)
		return nil
	}

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.rooms.UpdateTimesBooked(ctx, roomID, room.TimesBooked+1); err != nil {
		return err
	}
	if err := s.tracker.MarkProcessed(ctx, key); err != nil {
		return err
	}
	s.log.Info("times booked incremented", "room_id", roomID, "times_booked", room.TimesBooked+1)
	return nil
}

func (s *RoomService) CreateRoom(ctx context.Context, hotelID int64, number string) (domain.Room, error) {
	if _, err := s.hotels.Get(ctx, hotelID); err != nil {
		return domain.Room{}, err
	}
	room, err := s.rooms.Create(ctx, domain.Room{
		HotelID:   hotelID,
		Number:    number,
		Available: true,
	})
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info("room created", "room_id", room.ID, "hotel_id", hotelID)
	return room, nil
}

func (s *RoomService) AvailableRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListAvailable(ctx)
}

func (s *RoomService) RecommendedRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListRecommended(ctx)
}
