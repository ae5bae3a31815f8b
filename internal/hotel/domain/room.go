package domain

import "errors"

var (
	ErrHotelNotFound = errors.New("hotel not found")
	ErrRoomNotFound  = errors.New("room not found")
)

type Hotel struct {
	ID      int64
	Name    string
	Address string
}

// Room carries the availability flag the confirm operation checks and the
// usage counter the increment operation bumps. Nothing locks the flag between
// check and confirmation; concurrent confirms for the same room can both
// succeed (see DESIGN.md).
type Room struct {
	ID          int64
	HotelID     int64
	Number      string
	Available   bool
	TimesBooked int
}
