package application

import (
	"context"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, room domain.Room) (domain.Room, error)
	Get(ctx context.Context, id int64) (domain.Room, error)
	ListAvailable(ctx context.Context) ([]domain.Room, error)
	// ListRecommended returns available rooms, least-booked first.
	ListRecommended(ctx context.Context) ([]domain.Room, error)
	UpdateTimesBooked(ctx context.Context, id int64, timesBooked int) error
}

type HotelRepository interface {
	Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error)
	Get(ctx context.Context, id int64) (domain.Hotel, error)
	List(ctx context.Context) ([]domain.Hotel, error)
	Count(ctx context.Context) (int, error)
}
