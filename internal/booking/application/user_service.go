package application

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/roomflow/Hotel-Booking-System/internal/booking/domain"
)

type UserService struct {
	log  *slog.Logger
	repo UserRepository
}

func NewUserService(log *slog.Logger, repo UserRepository) *UserService {
	return &UserService{log: log, repo: repo}
}

func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return domain.User{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.repo.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return u, nil
}
