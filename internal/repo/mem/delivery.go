package mem

import (
	"context"
	"fmt"
	"sort"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// DeliveryRepo is the in-memory implementation of repo.DeliveryRepo.
type DeliveryRepo struct {
	s *Store
}

func (r *DeliveryRepo) Create(_ context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextDeliveryID++
	r.s.orderSeq++

	delivery.ID = r.s.nextDeliveryID
	delivery.OrderNumber = fmt.Sprintf("SP%d-%03d", r.s.now().Year(), r.s.orderSeq)
	delivery.Status = domain.StatusPending
	delivery.DriverID = nil
	delivery.FinalPrice = nil
	delivery.CreatedAt = r.s.now().UTC()
	delivery.PickedUpAt = nil
	delivery.DeliveredAt = nil

	r.s.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (r *DeliveryRepo) GetByID(_ context.Context, id int64) (domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delivery, ok := r.s.deliveries[id]
	if !ok {
		return domain.Delivery{}, fmt.Errorf("mem.DeliveryRepo.GetByID: %w", domain.ErrNotFound)
	}
	return delivery, nil
}

func (r *DeliveryRepo) ListByUserID(_ context.Context, userID int64) ([]domain.Delivery, error) {
	return r.list(func(d domain.Delivery) bool { return d.UserID == userID })
}

func (r *DeliveryRepo) ListByDriverID(_ context.Context, driverID int64) ([]domain.Delivery, error) {
	return r.list(func(d domain.Delivery) bool { return d.DriverID != nil && *d.DriverID == driverID })
}

// list returns matching deliveries most recent first, mirroring the
// ORDER BY created_at DESC of the Postgres implementation.
func (r *DeliveryRepo) list(match func(domain.Delivery) bool) ([]domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deliveries []domain.Delivery
	for _, d := range r.s.deliveries {
		if match(d) {
			deliveries = append(deliveries, d)
		}
	}
	sort.Slice(deliveries, func(i, j int) bool { return deliveries[i].ID > deliveries[j].ID })
	return deliveries, nil
}

func (r *DeliveryRepo) UpdateStatus(_ context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delivery, ok := r.s.deliveries[id]
	if !ok {
		return domain.Delivery{}, fmt.Errorf("mem.DeliveryRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	delivery.Status = status
	if driverID != nil {
		id := *driverID
		delivery.DriverID = &id
	}
	r.s.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (r *DeliveryRepo) MarkPickedUp(_ context.Context, id int64) (domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delivery, ok := r.s.deliveries[id]
	if !ok {
		return domain.Delivery{}, fmt.Errorf("mem.DeliveryRepo.MarkPickedUp: %w", domain.ErrNotFound)
	}
	now := r.s.now().UTC()
	delivery.PickedUpAt = &now
	r.s.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (r *DeliveryRepo) MarkDelivered(_ context.Context, id int64) (domain.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delivery, ok := r.s.deliveries[id]
	if !ok {
		return domain.Delivery{}, fmt.Errorf("mem.DeliveryRepo.MarkDelivered: %w", domain.ErrNotFound)
	}
	now := r.s.now().UTC()
	delivery.DeliveredAt = &now
	r.s.deliveries[delivery.ID] = delivery
	return delivery, nil
}
