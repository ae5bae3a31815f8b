package application

import (
	"context"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	Get(ctx context.Context, id int64) (domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	// UpdateStatusWithOutbox persists the status change and stages the
	// matching event in one transaction.
	UpdateStatusWithOutbox(ctx context.Context, id int64, status domain.BookingStatus, eventType string, payload []byte, traceparent string) error
}

type UserRepository interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// HotelClient is the coordinator's view of the remote inventory owner. The
// request id travels out-of-band on every call so the remote side can
// deduplicate retries.
type HotelClient interface {
	ConfirmAvailability(ctx context.Context, roomID int64, requestID string) (bool, error)
	ReleaseSlot(ctx context.Context, roomID int64, requestID string) error
	IncrementTimesBooked(ctx context.Context, roomID int64, requestID string) error
}
