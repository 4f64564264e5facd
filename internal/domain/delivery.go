package domain

import "time"

// DeliveryType classifies what is being transported and drives pricing.
type DeliveryType string

const (
	TypeLetter  DeliveryType = "letter"
	TypePackage DeliveryType = "package"
	TypeExpress DeliveryType = "express"
)

// Valid reports whether t is one of the known delivery types.
func (t DeliveryType) Valid() bool {
	switch t {
	case TypeLetter, TypePackage, TypeExpress:
		return true
	}
	return false
}

// DeliveryStatus is the lifecycle stage of a delivery.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusAssigned  DeliveryStatus = "assigned"
	StatusPickedUp  DeliveryStatus = "picked_up"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
)

// statusRank orders the forward progression. Cancelled is terminal and
// handled separately in CanTransitionTo.
var statusRank = map[DeliveryStatus]int{
	StatusPending:   0,
	StatusAssigned:  1,
	StatusPickedUp:  2,
	StatusInTransit: 3,
	StatusDelivered: 4,
}

// Valid reports whether s is one of the known statuses.
func (s DeliveryStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition. Statuses only move forward through
// pending → assigned → picked_up → in_transit → delivered; cancelled is
// reachable from any non-terminal status.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Delivery is a single pickup-to-drop-off transport request and its
// lifecycle state. OrderNumber is assigned once at creation and never
// changes. DriverID is nil until a driver is assigned; PickedUpAt and
// DeliveredAt are nil until the corresponding status is reached. FinalPrice
// stays nil until the delivery completes. Money and coordinates are decimal
// strings on the wire.
type Delivery struct {
	ID                 int64          `json:"id"`
	UserID             int64          `json:"userId"`
	DriverID           *int64         `json:"driverId"`
	OrderNumber        string         `json:"orderNumber"` // e.g. "SP2025-001"
	Type               DeliveryType   `json:"type"`
	Status             DeliveryStatus `json:"status"`
	PickupStreet       string         `json:"pickupStreet"`
	PickupCity         string         `json:"pickupCity"`
	PickupPostalCode   string         `json:"pickupPostalCode"`
	PickupLatitude     *string        `json:"pickupLatitude"`
	PickupLongitude    *string        `json:"pickupLongitude"`
	DeliveryStreet     string         `json:"deliveryStreet"`
	DeliveryCity       string         `json:"deliveryCity"`
	DeliveryPostalCode string         `json:"deliveryPostalCode"`
	DeliveryLatitude   *string        `json:"deliveryLatitude"`
	DeliveryLongitude  *string        `json:"deliveryLongitude"`
	EstimatedPrice     string         `json:"estimatedPrice"`
	FinalPrice         *string        `json:"finalPrice"`
	EstimatedTime      int            `json:"estimatedTime"` // minutes
	CreatedAt          time.Time      `json:"createdAt"`
	PickedUpAt         *time.Time     `json:"pickedUpAt"`
	DeliveredAt        *time.Time     `json:"deliveredAt"`
}

// DeliveryDetail is a delivery with its assigned driver embedded.
// Driver is nil when no driver has been assigned yet.
type DeliveryDetail struct {
	Delivery
	Driver *Driver `json:"driver"`
}

// Estimate is a price/time quote, computed before or independent of
// delivery creation. Currency is always "EUR".
type Estimate struct {
	EstimatedPrice string `json:"estimatedPrice"`
	EstimatedTime  int    `json:"estimatedTime"` // minutes
	Currency       string `json:"currency"`
}
