package mem

import (
	"context"
	"fmt"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// DriverRepo is the in-memory implementation of repo.DriverRepo.
type DriverRepo struct {
	s *Store
}

func (r *DriverRepo) Create(_ context.Context, driver domain.Driver) (domain.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextDriverID++
	driver.ID = r.s.nextDriverID
	r.s.drivers[driver.ID] = driver
	return driver, nil
}

func (r *DriverRepo) GetByID(_ context.Context, id int64) (domain.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	driver, ok := r.s.drivers[id]
	if !ok {
		return domain.Driver{}, fmt.Errorf("mem.DriverRepo.GetByID: %w", domain.ErrNotFound)
	}
	return driver, nil
}

func (r *DriverRepo) ListAvailable(_ context.Context) ([]domain.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var drivers []domain.Driver
	for _, d := range r.s.drivers {
		if d.IsActive {
			drivers = append(drivers, d)
		}
	}
	return drivers, nil
}

func (r *DriverRepo) UpdateLocation(_ context.Context, id int64, lat, lng string) (domain.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	driver, ok := r.s.drivers[id]
	if !ok {
		return domain.Driver{}, fmt.Errorf("mem.DriverRepo.UpdateLocation: %w", domain.ErrNotFound)
	}
	driver.CurrentLatitude = &lat
	driver.CurrentLongitude = &lng
	r.s.drivers[id] = driver
	return driver, nil
}
