package domain

const (
	EventBookingConfirmed = "BookingConfirmed"
	EventBookingCancelled = "BookingCancelled"
)

type BookingConfirmed struct {
	BookingID int64 `json:"booking_id"`
	UserID    int64 `json:"user_id"`
	RoomID    int64 `json:"room_id"`
}

type BookingCancelled struct {
	BookingID int64  `json:"booking_id"`
	UserID    int64  `json:"user_id"`
	RoomID    int64  `json:"room_id"`
	Reason    string `json:"reason"`
}
