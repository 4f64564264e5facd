package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/metrics"
	"github.com/spoedpakketjes/backend/internal/repo"
)

// DeliveryCache is the subset of the redis cache the delivery service uses.
// Defined here so the service can be tested without a running Redis; pass nil
// to disable caching entirely.
type DeliveryCache interface {
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	Set(ctx context.Context, delivery domain.Delivery) error
	Invalidate(ctx context.Context, id int64) error
}

// DeliveryService implements business logic for Delivery operations:
// validation, pricing, persistence, demo driver auto-assignment, and
// forward-only status progression.
type DeliveryService struct {
	deliveries repo.DeliveryRepo
	drivers    repo.DriverRepo
	estimator  *Estimator
	cache      DeliveryCache // nil when caching is disabled
	sim        *Simulator    // nil when the lifecycle simulator is disabled
}

// NewDeliveryService constructs a DeliveryService. cache and sim may be nil.
// When sim is non-nil it is bound to this service and will drive simulated
// status advancement through the same transition rules as manual updates.
func NewDeliveryService(deliveries repo.DeliveryRepo, drivers repo.DriverRepo, estimator *Estimator, cache DeliveryCache, sim *Simulator) *DeliveryService {
	s := &DeliveryService{
		deliveries: deliveries,
		drivers:    drivers,
		estimator:  estimator,
		cache:      cache,
		sim:        sim,
	}
	if sim != nil {
		sim.bind(s)
	}
	return s
}

// Create validates and prices the delivery request, persists it, and — when
// any driver is available — assigns the first one and marks the delivery
// assigned. With the simulator enabled, an assigned delivery then advances
// to picked_up and in_transit on a timer unless a manual update intervenes.
func (s *DeliveryService) Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	if err := validateDelivery(delivery); err != nil {
		return domain.Delivery{}, err
	}

	quote, err := s.estimator.Quote(delivery.Type,
		delivery.PickupLatitude, delivery.PickupLongitude,
		delivery.DeliveryLatitude, delivery.DeliveryLongitude)
	if err != nil {
		return domain.Delivery{}, err
	}
	delivery.EstimatedPrice = quote.EstimatedPrice
	delivery.EstimatedTime = quote.EstimatedTime

	created, err := s.deliveries.Create(ctx, delivery)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("service.DeliveryService.Create: %w", err)
	}
	metrics.DeliveriesCreatedTotal.Inc()

	// Demo auto-assignment: hand the delivery to the first available driver.
	// A real dispatch system would match on location and load instead.
	available, err := s.drivers.ListAvailable(ctx)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("service.DeliveryService.Create: %w", err)
	}
	if len(available) > 0 {
		created, err = s.deliveries.UpdateStatus(ctx, created.ID, domain.StatusAssigned, &available[0].ID)
		if err != nil {
			return domain.Delivery{}, fmt.Errorf("service.DeliveryService.Create: assign: %w", err)
		}
		metrics.StatusUpdatesTotal.WithLabelValues(string(domain.StatusAssigned)).Inc()
		if s.sim != nil {
			s.sim.Schedule(created.ID)
		}
	}

	return created, nil
}

// GetByID returns a single delivery with its assigned driver embedded.
// Driver is nil when no driver is assigned. Reads go through the cache when
// one is configured; cache failures fall back to the repository.
func (s *DeliveryService) GetByID(ctx context.Context, id int64) (domain.DeliveryDetail, error) {
	delivery, err := s.getDelivery(ctx, id)
	if err != nil {
		return domain.DeliveryDetail{}, fmt.Errorf("service.DeliveryService.GetByID: %w", err)
	}

	detail := domain.DeliveryDetail{Delivery: delivery}
	if delivery.DriverID != nil {
		driver, err := s.drivers.GetByID(ctx, *delivery.DriverID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.DeliveryDetail{}, fmt.Errorf("service.DeliveryService.GetByID: driver: %w", err)
		}
		if err == nil {
			detail.Driver = &driver
		}
	}
	return detail, nil
}

// getDelivery reads one delivery, cache-aside when a cache is configured.
func (s *DeliveryService) getDelivery(ctx context.Context, id int64) (domain.Delivery, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "delivery cache read failed", "id", id, "error", err)
		}
		if cached != nil {
			return *cached, nil
		}
	}

	delivery, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return domain.Delivery{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, delivery); err != nil {
			slog.WarnContext(ctx, "delivery cache write failed", "id", id, "error", err)
		}
	}
	return delivery, nil
}

// ListByUser returns all deliveries created by the given user, most recent
// first. Always returns a non-nil slice so callers can safely range over it.
func (s *DeliveryService) ListByUser(ctx context.Context, userID int64) ([]domain.Delivery, error) {
	deliveries, err := s.deliveries.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.DeliveryService.ListByUser: %w", err)
	}
	if deliveries == nil {
		return []domain.Delivery{}, nil
	}
	return deliveries, nil
}

// ListByDriver returns all deliveries assigned to the given driver, most
// recent first. Always returns a non-nil slice.
func (s *DeliveryService) ListByDriver(ctx context.Context, driverID int64) ([]domain.Delivery, error) {
	deliveries, err := s.deliveries.ListByDriverID(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.DeliveryService.ListByDriver: %w", err)
	}
	if deliveries == nil {
		return []domain.Delivery{}, nil
	}
	return deliveries, nil
}

// UpdateStatus applies a manual status transition. Any pending simulated
// advancement for the delivery is cancelled first, so explicit updates always
// win over the demo timers.
func (s *DeliveryService) UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error) {
	if s.sim != nil {
		s.sim.Cancel(id)
	}
	return s.advance(ctx, id, status, driverID)
}

// advance validates and applies a status transition. It is shared by manual
// updates and the simulator; only the former cancels pending timers.
func (s *DeliveryService) advance(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error) {
	if !status.Valid() {
		return domain.Delivery{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	current, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("service.DeliveryService.UpdateStatus: %w", err)
	}
	if !current.Status.CanTransitionTo(status) {
		return domain.Delivery{}, fmt.Errorf("%w: cannot move from %s to %s", domain.ErrValidation, current.Status, status)
	}

	if driverID != nil {
		// A driver can only be (re)assigned together with the assigned
		// transition, and never cleared once set.
		if status != domain.StatusAssigned {
			return domain.Delivery{}, fmt.Errorf("%w: driverId is only accepted with status assigned", domain.ErrValidation)
		}
		if _, err := s.drivers.GetByID(ctx, *driverID); err != nil {
			return domain.Delivery{}, fmt.Errorf("service.DeliveryService.UpdateStatus: driver: %w", err)
		}
	}

	updated, err := s.deliveries.UpdateStatus(ctx, id, status, driverID)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("service.DeliveryService.UpdateStatus: %w", err)
	}

	switch status {
	case domain.StatusPickedUp:
		updated, err = s.deliveries.MarkPickedUp(ctx, id)
	case domain.StatusDelivered:
		updated, err = s.deliveries.MarkDelivered(ctx, id)
	}
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("service.DeliveryService.UpdateStatus: %w", err)
	}

	metrics.StatusUpdatesTotal.WithLabelValues(string(status)).Inc()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			slog.WarnContext(ctx, "delivery cache invalidation failed", "id", id, "error", err)
		}
	}

	return updated, nil
}

// advanceSimulated lets the simulator reuse the transition rules of advance.
// A simulated step that has been overtaken by a manual update simply fails
// transition validation and is dropped.
func (s *DeliveryService) advanceSimulated(ctx context.Context, id int64, status domain.DeliveryStatus) error {
	_, err := s.advance(ctx, id, status, nil)
	return err
}

// validateDelivery enforces the creation rules: a valid type, an owning
// user, and complete pickup/drop-off postal addresses. Coordinates are
// optional; when present they are validated by the estimator.
func validateDelivery(d domain.Delivery) error {
	if d.UserID <= 0 {
		return fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: type must be letter, package or express", domain.ErrValidation)
	}
	for _, f := range []struct{ name, value string }{
		{"pickupStreet", d.PickupStreet},
		{"pickupCity", d.PickupCity},
		{"pickupPostalCode", d.PickupPostalCode},
		{"deliveryStreet", d.DeliveryStreet},
		{"deliveryCity", d.DeliveryCity},
		{"deliveryPostalCode", d.DeliveryPostalCode},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	return nil
}
