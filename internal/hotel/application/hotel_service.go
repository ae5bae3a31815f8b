package application

import (
	"context"
	"log/slog"

	"github.com/roomflow/Hotel-Booking-System/internal/hotel/domain"
)

type HotelService struct {
	log  *slog.Logger
	repo HotelRepository
}

func NewHotelService(log *slog.Logger, repo HotelRepository) *HotelService {
	return &HotelService{log: log, repo: repo}
}

func (s *HotelService) CreateHotel(ctx context.Context, name, address string) (domain.Hotel, error) {
	h, err := s.repo.Create(ctx, domain.Hotel{Name: name, Address: address})
	if err != nil {
		return domain.Hotel{}, err
	}
	s.log.Info("hotel created", "hotel_id", h.ID, "name", h.Name)
	return h, nil
}

func (s *HotelService) Hotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.List(ctx)
}

func (s *HotelService) HotelByID(ctx context.Context, id int64) (domain.Hotel, error) {
	return s.repo.Get(ctx, id)
}
