package mem_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/repo/mem"
)

func deliveryFixture(userID int64) domain.Delivery {
	pLat, pLng := "52.3676", "4.9041"
	dLat, dLng := "52.3580", "4.8690"
	return domain.Delivery{
		UserID:             userID,
		Type:               domain.TypePackage,
		PickupStreet:       "Damrak 1",
		PickupCity:         "Amsterdam",
		PickupPostalCode:   "1012 LG",
		PickupLatitude:     &pLat,
		PickupLongitude:    &pLng,
		DeliveryStreet:     "Vondelstraat 10",
		DeliveryCity:       "Amsterdam",
		DeliveryPostalCode: "1054 GD",
		DeliveryLatitude:   &dLat,
		DeliveryLongitude:  &dLng,
		EstimatedPrice:     "13.14",
		EstimatedTime:      45,
	}
}

// ---- users -----------------------------------------------------------------

func TestUserRepo_CreateAndGet(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	created, err := store.Users().Create(ctx, domain.User{
		Username:     "lisa",
		PasswordHash: "$2a$10$fake",
		FullName:     "Lisa Jansen",
		Email:        "lisa@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := store.Users().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := store.Users().GetByUsername(ctx, "lisa")
	require.NoError(t, err)
	assert.Equal(t, created, byName)
}

func TestUserRepo_NotFound(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	_, err := store.Users().GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Users().GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- addresses -------------------------------------------------------------

func TestAddressRepo_ListByUserID(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Addresses().Create(ctx, domain.Address{
			UserID: 1, Label: fmt.Sprintf("adres %d", i),
			Street: "Straat 1", City: "Utrecht", PostalCode: "3511 AA",
			Country: "Nederland", Latitude: "52.09", Longitude: "5.12",
		})
		require.NoError(t, err)
	}
	_, err := store.Addresses().Create(ctx, domain.Address{
		UserID: 2, Label: "werk",
		Street: "Plein 5", City: "Den Haag", PostalCode: "2511 CS",
		Country: "Nederland", Latitude: "52.08", Longitude: "4.31",
	})
	require.NoError(t, err)

	mine, err := store.Addresses().ListByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	none, err := store.Addresses().ListByUserID(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// ---- drivers ---------------------------------------------------------------

func TestDriverRepo_ListAvailable_FiltersInactive(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	_, err := store.Drivers().Create(ctx, domain.Driver{Name: "Actief", IsActive: true})
	require.NoError(t, err)
	_, err = store.Drivers().Create(ctx, domain.Driver{Name: "Inactief", IsActive: false})
	require.NoError(t, err)

	available, err := store.Drivers().ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Actief", available[0].Name)
}

func TestDriverRepo_UpdateLocation(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	created, err := store.Drivers().Create(ctx, domain.Driver{Name: "Jan", IsActive: true})
	require.NoError(t, err)
	assert.Nil(t, created.CurrentLatitude)

	updated, err := store.Drivers().UpdateLocation(ctx, created.ID, "52.37", "4.90")
	require.NoError(t, err)
	require.NotNil(t, updated.CurrentLatitude)
	assert.Equal(t, "52.37", *updated.CurrentLatitude)
	require.NotNil(t, updated.CurrentLongitude)
	assert.Equal(t, "4.90", *updated.CurrentLongitude)

	_, err = store.Drivers().UpdateLocation(ctx, 999, "0", "0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- deliveries ------------------------------------------------------------

func TestDeliveryRepo_Create_Defaults(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	got, err := store.Deliveries().Create(ctx, deliveryFixture(1))
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Nil(t, got.DriverID)
	assert.Nil(t, got.PickedUpAt)
	assert.Nil(t, got.DeliveredAt)
	assert.Nil(t, got.FinalPrice)
	assert.False(t, got.CreatedAt.IsZero())

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("SP%d-001", year), got.OrderNumber)
}

func TestDeliveryRepo_OrderNumbersIncrement(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	pattern := regexp.MustCompile(`^SP\d{4}-\d{3,}$`)
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		got, err := store.Deliveries().Create(ctx, deliveryFixture(1))
		require.NoError(t, err)
		assert.Regexp(t, pattern, got.OrderNumber)
		assert.False(t, seen[got.OrderNumber], "order number %s repeated", got.OrderNumber)
		seen[got.OrderNumber] = true
	}
}

func TestDeliveryRepo_UpdateStatus_AssignsDriver(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	created, err := store.Deliveries().Create(ctx, deliveryFixture(1))
	require.NoError(t, err)

	driverID := int64(7)
	updated, err := store.Deliveries().UpdateStatus(ctx, created.ID, domain.StatusAssigned, &driverID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAssigned, updated.Status)
	require.NotNil(t, updated.DriverID)
	assert.Equal(t, driverID, *updated.DriverID)

	// A later update without a driver id keeps the assignment.
	updated, err = store.Deliveries().UpdateStatus(ctx, created.ID, domain.StatusPickedUp, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, updated.Status)
	require.NotNil(t, updated.DriverID)
	assert.Equal(t, driverID, *updated.DriverID)
}

func TestDeliveryRepo_UpdateStatus_NotFound(t *testing.T) {
	store := mem.NewStore()

	_, err := store.Deliveries().UpdateStatus(context.Background(), 123, domain.StatusAssigned, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryRepo_Timestamps(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	created, err := store.Deliveries().Create(ctx, deliveryFixture(1))
	require.NoError(t, err)

	picked, err := store.Deliveries().MarkPickedUp(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, picked.PickedUpAt)
	assert.False(t, picked.PickedUpAt.Before(created.CreatedAt), "picked_up_at before created_at")

	delivered, err := store.Deliveries().MarkDelivered(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	assert.False(t, delivered.DeliveredAt.Before(*picked.PickedUpAt), "delivered_at before picked_up_at")
}

func TestDeliveryRepo_Lists(t *testing.T) {
	store := mem.NewStore()
	ctx := context.Background()

	first, err := store.Deliveries().Create(ctx, deliveryFixture(1))
	require.NoError(t, err)
	second, err := store.Deliveries().Create(ctx, deliveryFixture(1))
	require.NoError(t, err)
	_, err = store.Deliveries().Create(ctx, deliveryFixture(2))
	require.NoError(t, err)

	mine, err := store.Deliveries().ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Most recent first.
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	driverID := int64(3)
	_, err = store.Deliveries().UpdateStatus(ctx, first.ID, domain.StatusAssigned, &driverID)
	require.NoError(t, err)

	assigned, err := store.Deliveries().ListByDriverID(ctx, driverID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, first.ID, assigned[0].ID)
}
