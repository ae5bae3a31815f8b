package domain

import (
	"errors"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// Booking is the coordinator-owned reservation record. RequestID is minted
// once per creation attempt and reused by every remote call (and its retries)
// made on behalf of that attempt; two separate creation attempts never share
// one. Bookings are never deleted; cancellation is a status change.
type Booking struct {
	ID        int64
	UserID    int64
	RoomID    int64
	StartDate time.Time
	EndDate   time.Time
	Status    BookingStatus
	CreatedAt time.Time
	RequestID string
}

func NewBooking(userID, roomID int64, start, end time.Time, requestID string) (Booking, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Booking{}, ErrInvalidDateRange
	}
	return Booking{
		UserID:    userID,
		RoomID:    roomID,
		StartDate: start,
		EndDate:   end,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
		RequestID: requestID,
	}, nil
}
