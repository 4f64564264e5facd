package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/repo"
)

// DriverService implements business logic for Driver operations.
type DriverService struct {
	drivers repo.DriverRepo
}

// NewDriverService constructs a DriverService backed by the provided DriverRepo.
func NewDriverService(drivers repo.DriverRepo) *DriverService {
	return &DriverService{drivers: drivers}
}

// Create validates and persists a new driver. Used by seeding and admin
// tooling; there is no public signup for drivers.
func (s *DriverService) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	if strings.TrimSpace(driver.Name) == "" {
		return domain.Driver{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	result, err := s.drivers.Create(ctx, driver)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}
	return result, nil
}

// ListAvailable returns all active drivers, unordered.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DriverService) ListAvailable(ctx context.Context) ([]domain.Driver, error) {
	drivers, err := s.drivers.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DriverService.ListAvailable: %w", err)
	}
	if drivers == nil {
		return []domain.Driver{}, nil
	}
	return drivers, nil
}

// UpdateLocation validates the coordinates and stores them as the driver's
// current position. Returns domain.ErrNotFound for an unknown driver.
func (s *DriverService) UpdateLocation(ctx context.Context, id int64, lat, lng string) (domain.Driver, error) {
	if _, err := parseCoord("latitude", lat); err != nil {
		return domain.Driver{}, err
	}
	if _, err := parseCoord("longitude", lng); err != nil {
		return domain.Driver{}, err
	}
	driver, err := s.drivers.UpdateLocation(ctx, id, lat, lng)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.UpdateLocation: %w", err)
	}
	return driver, nil
}
