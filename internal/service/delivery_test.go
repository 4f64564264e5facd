package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/repo"
	"github.com/spoedpakketjes/backend/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockDeliveryRepo is a hand-written test double for repo.DeliveryRepo.
type mockDeliveryRepo struct {
	create         func(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error)
	getByID        func(ctx context.Context, id int64) (domain.Delivery, error)
	listByUserID   func(ctx context.Context, userID int64) ([]domain.Delivery, error)
	listByDriverID func(ctx context.Context, driverID int64) ([]domain.Delivery, error)
	updateStatus   func(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error)
	markPickedUp   func(ctx context.Context, id int64) (domain.Delivery, error)
	markDelivered  func(ctx context.Context, id int64) (domain.Delivery, error)
}

func (m *mockDeliveryRepo) Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	return m.create(ctx, delivery)
}
func (m *mockDeliveryRepo) GetByID(ctx context.Context, id int64) (domain.Delivery, error) {
	return m.getByID(ctx, id)
}
func (m *mockDeliveryRepo) ListByUserID(ctx context.Context, userID int64) ([]domain.Delivery, error) {
	return m.listByUserID(ctx, userID)
}
func (m *mockDeliveryRepo) ListByDriverID(ctx context.Context, driverID int64) ([]domain.Delivery, error) {
	return m.listByDriverID(ctx, driverID)
}
func (m *mockDeliveryRepo) UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error) {
	return m.updateStatus(ctx, id, status, driverID)
}
func (m *mockDeliveryRepo) MarkPickedUp(ctx context.Context, id int64) (domain.Delivery, error) {
	if m.markPickedUp != nil {
		return m.markPickedUp(ctx, id)
	}
	return domain.Delivery{ID: id}, nil
}
func (m *mockDeliveryRepo) MarkDelivered(ctx context.Context, id int64) (domain.Delivery, error) {
	if m.markDelivered != nil {
		return m.markDelivered(ctx, id)
	}
	return domain.Delivery{ID: id}, nil
}

// compile-time check: mockDeliveryRepo must satisfy repo.DeliveryRepo.
var _ repo.DeliveryRepo = (*mockDeliveryRepo)(nil)

// mockDriverRepo is a hand-written test double for repo.DriverRepo.
type mockDriverRepo struct {
	create         func(ctx context.Context, driver domain.Driver) (domain.Driver, error)
	getByID        func(ctx context.Context, id int64) (domain.Driver, error)
	listAvailable  func(ctx context.Context) ([]domain.Driver, error)
	updateLocation func(ctx context.Context, id int64, lat, lng string) (domain.Driver, error)
}

func (m *mockDriverRepo) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	return m.create(ctx, driver)
}
func (m *mockDriverRepo) GetByID(ctx context.Context, id int64) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverRepo) ListAvailable(ctx context.Context) ([]domain.Driver, error) {
	if m.listAvailable != nil {
		return m.listAvailable(ctx)
	}
	return nil, nil
}
func (m *mockDriverRepo) UpdateLocation(ctx context.Context, id int64, lat, lng string) (domain.Driver, error) {
	return m.updateLocation(ctx, id, lat, lng)
}

var _ repo.DriverRepo = (*mockDriverRepo)(nil)

// mockDeliveryCache is a test double for service.DeliveryCache.
type mockDeliveryCache struct {
	get        func(ctx context.Context, id int64) (*domain.Delivery, error)
	set        func(ctx context.Context, delivery domain.Delivery) error
	invalidate func(ctx context.Context, id int64) error
}

func (m *mockDeliveryCache) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	return m.get(ctx, id)
}
func (m *mockDeliveryCache) Set(ctx context.Context, delivery domain.Delivery) error {
	return m.set(ctx, delivery)
}
func (m *mockDeliveryCache) Invalidate(ctx context.Context, id int64) error {
	if m.invalidate != nil {
		return m.invalidate(ctx, id)
	}
	return nil
}

var _ service.DeliveryCache = (*mockDeliveryCache)(nil)

// ---- helpers ---------------------------------------------------------------

func int64ptr(n int64) *int64 { return &n }

func validDelivery(userID int64) domain.Delivery {
	return domain.Delivery{
		UserID:             userID,
		Type:               domain.TypePackage,
		PickupStreet:       "Herengracht 100",
		PickupCity:         "Amsterdam",
		PickupPostalCode:   "1015 BS",
		DeliveryStreet:     "Coolsingel 42",
		DeliveryCity:       "Rotterdam",
		DeliveryPostalCode: "3011 AD",
	}
}

// newDeliveryService wires a DeliveryService with a deterministic estimator
// and no cache or simulator unless the test provides them.
func newDeliveryService(deliveries repo.DeliveryRepo, drivers repo.DriverRepo, cache service.DeliveryCache) *service.DeliveryService {
	return service.NewDeliveryService(deliveries, drivers, service.NewFixedEstimator(0), cache, nil)
}

// ---- Create ----------------------------------------------------------------

func TestDeliveryService_Create_NoDriverAvailable_StaysPending(t *testing.T) {
	input := validDelivery(7)
	var persisted domain.Delivery

	svc := newDeliveryService(
		&mockDeliveryRepo{
			create: func(_ context.Context, d domain.Delivery) (domain.Delivery, error) {
				persisted = d
				d.ID = 1
				d.OrderNumber = "SP2026-001"
				d.Status = domain.StatusPending
				return d, nil
			},
		},
		&mockDriverRepo{
			listAvailable: func(_ context.Context) ([]domain.Driver, error) {
				return nil, nil
			},
		},
		nil,
	)

	got, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.DriverID)
	assert.Equal(t, "SP2026-001", got.OrderNumber)
	// The estimator fills in the price before persistence.
	assert.Equal(t, "12.50", persisted.EstimatedPrice)
	assert.Equal(t, 45, persisted.EstimatedTime)
}

func TestDeliveryService_Create_AutoAssignsFirstAvailableDriver(t *testing.T) {
	var assignedDriver *int64

	svc := newDeliveryService(
		&mockDeliveryRepo{
			create: func(_ context.Context, d domain.Delivery) (domain.Delivery, error) {
				d.ID = 1
				d.Status = domain.StatusPending
				return d, nil
			},
			updateStatus: func(_ context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error) {
				assignedDriver = driverID
				return domain.Delivery{ID: id, Status: status, DriverID: driverID}, nil
			},
		},
		&mockDriverRepo{
			listAvailable: func(_ context.Context) ([]domain.Driver, error) {
				return []domain.Driver{{ID: 3, Name: "Jan de Vries"}, {ID: 4, Name: "Fatima el Idrissi"}}, nil
			},
		},
		nil,
	)

	got, err := svc.Create(context.Background(), validDelivery(7))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, got.Status)
	require.NotNil(t, assignedDriver)
	assert.Equal(t, int64(3), *assignedDriver)
}

func TestDeliveryService_Create_WithCoordinates_AddsDistanceSurcharge(t *testing.T) {
	input := validDelivery(7)
	// Amsterdam → Rotterdam, ~57 km.
	input.PickupLatitude, input.PickupLongitude = strp("52.3676"), strp("4.9041")
	input.DeliveryLatitude, input.DeliveryLongitude = strp("51.9244"), strp("4.4777")

	var persisted domain.Delivery
	svc := newDeliveryService(
		&mockDeliveryRepo{
			create: func(_ context.Context, d domain.Delivery) (domain.Delivery, error) {
				persisted = d
				return d, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	_, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	// 12.50 base + ~57 km × 0.50 ≈ 41.
	price, parseErr := parsePriceTest(persisted.EstimatedPrice)
	require.NoError(t, parseErr)
	assert.InDelta(t, 41.0, price, 1.0)
}

func TestDeliveryService_Create_ValidationFailures(t *testing.T) {
	svc := newDeliveryService(&mockDeliveryRepo{}, &mockDriverRepo{}, nil)

	tests := []struct {
		name   string
		mutate func(*domain.Delivery)
	}{
		{"missing user", func(d *domain.Delivery) { d.UserID = 0 }},
		{"unknown type", func(d *domain.Delivery) { d.Type = "pallet" }},
		{"missing pickup street", func(d *domain.Delivery) { d.PickupStreet = "" }},
		{"blank delivery city", func(d *domain.Delivery) { d.DeliveryCity = "   " }},
		{"missing delivery postal code", func(d *domain.Delivery) { d.DeliveryPostalCode = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validDelivery(7)
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), input)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestDeliveryService_Create_MalformedCoordinate(t *testing.T) {
	input := validDelivery(7)
	input.PickupLatitude, input.PickupLongitude = strp("abc"), strp("4.9041")
	input.DeliveryLatitude, input.DeliveryLongitude = strp("51.9244"), strp("4.4777")

	svc := newDeliveryService(&mockDeliveryRepo{}, &mockDriverRepo{}, nil)

	_, err := svc.Create(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeliveryService_Create_RepoError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newDeliveryService(
		&mockDeliveryRepo{
			create: func(_ context.Context, _ domain.Delivery) (domain.Delivery, error) {
				return domain.Delivery{}, boom
			},
		},
		&mockDriverRepo{},
		nil,
	)

	_, err := svc.Create(context.Background(), validDelivery(7))

	assert.ErrorIs(t, err, boom)
}

// ---- GetByID ---------------------------------------------------------------

func TestDeliveryService_GetByID_NoDriver(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusPending}, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	got, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Nil(t, got.Driver)
}

func TestDeliveryService_GetByID_EmbedsDriver(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusAssigned, DriverID: int64ptr(3)}, nil
			},
		},
		&mockDriverRepo{
			getByID: func(_ context.Context, id int64) (domain.Driver, error) {
				return domain.Driver{ID: id, Name: "Jan de Vries"}, nil
			},
		},
		nil,
	)

	got, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, got.Driver)
	assert.Equal(t, "Jan de Vries", got.Driver.Name)
}

func TestDeliveryService_GetByID_NotFound(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, _ int64) (domain.Delivery, error) {
				return domain.Delivery{}, domain.ErrNotFound
			},
		},
		&mockDriverRepo{},
		nil,
	)

	_, err := svc.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryService_GetByID_CacheHitSkipsRepo(t *testing.T) {
	cached := domain.Delivery{ID: 1, Status: domain.StatusInTransit}
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, _ int64) (domain.Delivery, error) {
				t.Fatal("repo must not be hit on a cache hit")
				return domain.Delivery{}, nil
			},
		},
		&mockDriverRepo{},
		&mockDeliveryCache{
			get: func(_ context.Context, _ int64) (*domain.Delivery, error) {
				return &cached, nil
			},
		},
	)

	got, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, got.Status)
}

func TestDeliveryService_GetByID_CacheMissFillsCache(t *testing.T) {
	var stored *domain.Delivery
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusPending}, nil
			},
		},
		&mockDriverRepo{},
		&mockDeliveryCache{
			get: func(_ context.Context, _ int64) (*domain.Delivery, error) {
				return nil, nil
			},
			set: func(_ context.Context, d domain.Delivery) error {
				stored = &d
				return nil
			},
		},
	)

	_, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.ID)
}

func TestDeliveryService_GetByID_CacheErrorFallsBackToRepo(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id}, nil
			},
		},
		&mockDriverRepo{},
		&mockDeliveryCache{
			get: func(_ context.Context, _ int64) (*domain.Delivery, error) {
				return nil, errors.New("redis down")
			},
			set: func(_ context.Context, _ domain.Delivery) error {
				return errors.New("redis down")
			},
		},
	)

	got, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

// ---- List ------------------------------------------------------------------

func TestDeliveryService_ListByUser_EmptyIsNonNil(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			listByUserID: func(_ context.Context, _ int64) ([]domain.Delivery, error) {
				return nil, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	got, err := svc.ListByUser(context.Background(), 7)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeliveryService_ListByDriver(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			listByDriverID: func(_ context.Context, driverID int64) ([]domain.Delivery, error) {
				return []domain.Delivery{{ID: 2, DriverID: &driverID}, {ID: 1, DriverID: &driverID}}, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	got, err := svc.ListByDriver(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

// ---- UpdateStatus ----------------------------------------------------------

func TestDeliveryService_UpdateStatus_ForwardTransition(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusAssigned}, nil
			},
			updateStatus: func(_ context.Context, id int64, status domain.DeliveryStatus, _ *int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: status}, nil
			},
			markPickedUp: func(_ context.Context, id int64) (domain.Delivery, error) {
				now := time.Now()
				return domain.Delivery{ID: id, Status: domain.StatusPickedUp, PickedUpAt: &now}, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	got, err := svc.UpdateStatus(context.Background(), 1, domain.StatusPickedUp, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, got.Status)
	assert.NotNil(t, got.PickedUpAt)
}

func TestDeliveryService_UpdateStatus_DeliveredStampsTimestamp(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusInTransit}, nil
			},
			updateStatus: func(_ context.Context, id int64, status domain.DeliveryStatus, _ *int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: status}, nil
			},
			markDelivered: func(_ context.Context, id int64) (domain.Delivery, error) {
				now := time.Now()
				return domain.Delivery{ID: id, Status: domain.StatusDelivered, DeliveredAt: &now}, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	got, err := svc.UpdateStatus(context.Background(), 1, domain.StatusDelivered, nil)

	require.NoError(t, err)
	assert.NotNil(t, got.DeliveredAt)
}

func TestDeliveryService_UpdateStatus_BackwardRejected(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusInTransit}, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	_, err := svc.UpdateStatus(context.Background(), 1, domain.StatusAssigned, nil)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "cannot move from in_transit to assigned")
}

func TestDeliveryService_UpdateStatus_TerminalRejected(t *testing.T) {
	for _, terminal := range []domain.DeliveryStatus{domain.StatusDelivered, domain.StatusCancelled} {
		svc := newDeliveryService(
			&mockDeliveryRepo{
				getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
					return domain.Delivery{ID: id, Status: terminal}, nil
				},
			},
			&mockDriverRepo{},
			nil,
		)

		_, err := svc.UpdateStatus(context.Background(), 1, domain.StatusCancelled, nil)

		assert.ErrorIs(t, err, domain.ErrValidation, string(terminal))
	}
}

func TestDeliveryService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := newDeliveryService(&mockDeliveryRepo{}, &mockDriverRepo{}, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, "teleported", nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeliveryService_UpdateStatus_NotFound(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, _ int64) (domain.Delivery, error) {
				return domain.Delivery{}, domain.ErrNotFound
			},
		},
		&mockDriverRepo{},
		nil,
	)

	_, err := svc.UpdateStatus(context.Background(), 99, domain.StatusCancelled, nil)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryService_UpdateStatus_DriverOnlyWithAssigned(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusAssigned}, nil
			},
		},
		&mockDriverRepo{},
		nil,
	)

	_, err := svc.UpdateStatus(context.Background(), 1, domain.StatusPickedUp, int64ptr(3))

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "driverId")
}

func TestDeliveryService_UpdateStatus_AssignUnknownDriver(t *testing.T) {
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusPending}, nil
			},
		},
		&mockDriverRepo{
			getByID: func(_ context.Context, _ int64) (domain.Driver, error) {
				return domain.Driver{}, domain.ErrNotFound
			},
		},
		nil,
	)

	_, err := svc.UpdateStatus(context.Background(), 1, domain.StatusAssigned, int64ptr(42))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryService_UpdateStatus_InvalidatesCache(t *testing.T) {
	var invalidated int64
	svc := newDeliveryService(
		&mockDeliveryRepo{
			getByID: func(_ context.Context, id int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: domain.StatusPending}, nil
			},
			updateStatus: func(_ context.Context, id int64, status domain.DeliveryStatus, _ *int64) (domain.Delivery, error) {
				return domain.Delivery{ID: id, Status: status}, nil
			},
		},
		&mockDriverRepo{},
		&mockDeliveryCache{
			get: func(_ context.Context, _ int64) (*domain.Delivery, error) { return nil, nil },
			set: func(_ context.Context, _ domain.Delivery) error { return nil },
			invalidate: func(_ context.Context, id int64) error {
				invalidated = id
				return nil
			},
		},
	)

	_, err := svc.UpdateStatus(context.Background(), 5, domain.StatusCancelled, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(5), invalidated)
}

// ---- small helpers ---------------------------------------------------------

func strp(s string) *string { return &s }

func parsePriceTest(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
