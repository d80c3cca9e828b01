package catalog

import (
	"context"
	"errors"

	"carsure/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("workshop not found")

type WorkshopStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Workshop, error)
	ListActive(ctx context.Context) ([]domain.Workshop, error)
}

type CarStore interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Car, error)
}

// Service exposes the read-only browsing surface: active workshops for the
// booking flow and the seller's own cars. Workshop and car management live in
// the admin back office, not here.
type Service struct {
	workshops WorkshopStore
	cars      CarStore
}

func NewService(workshops WorkshopStore, cars CarStore) *Service {
	return &Service{workshops: workshops, cars: cars}
}

func (s *Service) ListWorkshops(ctx context.Context) ([]domain.Workshop, error) {
	return s.workshops.ListActive(ctx)
}

func (s *Service) GetWorkshop(ctx context.Context, id int64) (*domain.Workshop, error) {
	w, err := s.workshops.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *Service) MyCars(ctx context.Context, ownerID int64) ([]domain.Car, error) {
	return s.cars.ListByOwner(ctx, ownerID)
}
