package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
	"github.com/roomflow/Hotel-Booking-System/pkg/retry"
	"github.com/roomflow/Hotel-Booking-System/pkg/tracing"
)

// Service orchestrates the booking saga against the hotel service: reserve
// tentatively, confirm with the remote owner, then commit or compensate.
// There is no shared transaction across the two services; the saga accepts
// best-effort consistency and always hands the caller a terminal booking.
type Service struct {
	log    *slog.Logger
	repo   BookingRepository
	hotel  HotelClient
	policy retry.Policy
	tracer trace.Tracer
}

type Option func(*Service)

// WithRetryPolicy overrides the remote-call retry policy.
func WithRetryPolicy(p retry.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func NewService(log *slog.Logger, repo BookingRepository, hotel HotelClient, opts ...Option) *Service {
	s := &Service{
		log:    log,
		repo:   repo,
		hotel:  hotel,
		policy: retry.DefaultPolicy(),
		tracer: otel.Tracer("booking-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateBookingInput struct {
	RoomID    int64
	StartDate time.Time
	EndDate   time.Time
}

// CreateBooking runs the saga to completion. Remote failure never surfaces
// as an error: after the retry budget is spent the booking is cancelled and
// a single compensating release is attempted. Only validation and local
// persistence failures are returned.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput, user domain.User) (domain.Booking, error) {
	ctx, span := s.tracer.Start(ctx, "saga.CreateBooking")
	defer span.End()

	requestID := uuid.NewString()

	b, err := domain.NewBooking(user.ID, in.RoomID, in.StartDate, in.EndDate, requestID)
	if err != nil {
		return domain.Booking{}, err
	}
	b, err = s.repo.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}
	s.log.Info("booking created", "booking_id", b.ID, "user_id", user.ID, "request_id", requestID)

	confirmed, confirmErr := s.confirmWithRetry(ctx, in.RoomID, requestID)
	switch {
	case confirmErr != nil:
		b, err = s.transition(ctx, b, domain.StatusCancelled, "confirm failed")
		if err != nil {
			return domain.Booking{}, err
		}
		if relErr := s.releaseWithRetry(ctx, in.RoomID, requestID); relErr != nil {
			s.log.Error("compensating release failed", "booking_id", b.ID, "err", relErr)
		}
		s.log.Error("booking failed", "booking_id", b.ID, "err", confirmErr)

	case confirmed:
		b, err = s.transition(ctx, b, domain.StatusConfirmed, "")
		if err != nil {
			return domain.Booking{}, err
		}
		if incErr := s.incrementWithRetry(ctx, in.RoomID, requestID); incErr != nil {
			// The booking stays CONFIRMED; the counter is best-effort.
			s.log.Error("times-booked increment failed", "booking_id", b.ID, "err", incErr)
		}
		s.log.Info("booking confirmed", "booking_id", b.ID)

	default:
		b, err = s.transition(ctx, b, domain.StatusCancelled, "room not available")
		if err != nil {
			return domain.Booking{}, err
		}
		s.log.Warn("booking cancelled, room not available", "booking_id", b.ID, "room_id", in.RoomID)
	}

	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, id, userID int64) (domain.Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.UserID != userID {
		return domain.Booking{}, domain.ErrAccessDenied
	}
	return b, nil
}

func (s *Service) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CancelBooking cancels a CONFIRMED booking on behalf of its owner. Any other
// status is a logged no-op. No compensating release is issued here: by the
// time a booking is CONFIRMED the remote side holds no tentative state.
func (s *Service) CancelBooking(ctx context.Context, id, userID int64) error {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return domain.ErrAccessDenied
	}
	if b.Status != domain.StatusConfirmed {
		s.log.Warn("booking cannot be cancelled", "booking_id", id, "status", b.Status)
		return nil
	}
	if _, err := s.transition(ctx, b, domain.StatusCancelled, "cancelled by user"); err != nil {
		return err
	}
	s.log.Info("booking cancelled", "booking_id", id)
	return nil
}

func (s *Service) confirmWithRetry(ctx context.Context, roomID int64, requestID string) (bool, error) {
	var confirmed bool
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		s.log.Info("confirming availability", "room_id", roomID, "request_id", requestID)
		var err error
		confirmed, err = s.hotel.ConfirmAvailability(ctx, roomID, requestID)
		return err
	})
	return confirmed, err
}

func (s *Service) incrementWithRetry(ctx context.Context, roomID int64, requestID string) error {
	return retry.Do(ctx, s.policy, func(ctx context.Context) error {
		s.log.Info("incrementing times booked", "room_id", roomID, "request_id", requestID)
		return s.hotel.IncrementTimesBooked(ctx, roomID, requestID)
	})
}

func (s *Service) releaseWithRetry(ctx context.Context, roomID int64, requestID string) error {
	return retry.Do(ctx, s.policy, func(ctx context.Context) error {
		s.log.Info("releasing slot", "room_id", roomID, "request_id", requestID)
		return s.hotel.ReleaseSlot(ctx, roomID, requestID)
	})
}

func (s *Service) transition(ctx context.Context, b domain.Booking, status domain.BookingStatus, reason string) (domain.Booking, error) {
	var (
		eventType string
		payload   []byte
	)
	if status == domain.StatusConfirmed {
		eventType = domain.EventBookingConfirmed
		payload, _ = json.Marshal(domain.BookingConfirmed{BookingID: b.ID, UserID: b.UserID, RoomID: b.RoomID})
	} else {
		eventType = domain.EventBookingCancelled
		payload, _ = json.Marshal(domain.BookingCancelled{BookingID: b.ID, UserID: b.UserID, RoomID: b.RoomID, Reason: reason})
	}

	if err := s.repo.UpdateStatusWithOutbox(ctx, b.ID, status, eventType, payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Booking{}, err
	}
	b.Status = status
	return b, nil
}
