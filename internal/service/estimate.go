// Package service contains the business logic for the delivery API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/geo"
	"github.com/spoedpakketjes/backend/internal/metrics"
)

// Pricing constants, in EUR unless noted.
const (
	basePriceLetter  = 8.50
	basePricePackage = 12.50
	basePriceExpress = 15.75

	// surchargePerKm is added per kilometer of haversine distance between
	// pickup and drop-off when both coordinate pairs are present.
	surchargePerKm = 0.50

	// jitterMax bounds the random demo-variability markup. Jitter is always
	// non-negative so a quote never undercuts the base price.
	jitterMax = 0.50

	// Estimated delivery times in minutes.
	estimateMinutesExpress = 30
	estimateMinutesDefault = 45
)

// Estimator computes price and time quotes for delivery requests.
type Estimator struct {
	// jitter returns a value in [0,1); replaced with a fixed function in tests.
	jitter func() float64
}

// NewEstimator returns an Estimator with a time-seeded jitter source.
func NewEstimator() *Estimator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Estimator{jitter: rng.Float64}
}

// Quote computes the price and time estimate for a delivery of the given
// type. The coordinate pointers may be nil; the distance surcharge applies
// only when all four are present. Identical pickup and drop-off coordinates
// are valid and yield the base price. Returns domain.ErrValidation for an
// unknown type or malformed coordinates.
func (e *Estimator) Quote(typ domain.DeliveryType, pickupLat, pickupLng, deliveryLat, deliveryLng *string) (domain.Estimate, error) {
	var price float64
	switch typ {
	case domain.TypeLetter:
		price = basePriceLetter
	case domain.TypePackage:
		price = basePricePackage
	case domain.TypeExpress:
		price = basePriceExpress
	default:
		return domain.Estimate{}, fmt.Errorf("%w: type must be letter, package or express", domain.ErrValidation)
	}

	if pickupLat != nil && pickupLng != nil && deliveryLat != nil && deliveryLng != nil {
		pLat, err := parseCoord("pickupLatitude", *pickupLat)
		if err != nil {
			return domain.Estimate{}, err
		}
		pLng, err := parseCoord("pickupLongitude", *pickupLng)
		if err != nil {
			return domain.Estimate{}, err
		}
		dLat, err := parseCoord("deliveryLatitude", *deliveryLat)
		if err != nil {
			return domain.Estimate{}, err
		}
		dLng, err := parseCoord("deliveryLongitude", *deliveryLng)
		if err != nil {
			return domain.Estimate{}, err
		}
		price += geo.HaversineKm(pLat, pLng, dLat, dLng) * surchargePerKm
	}

	price += e.jitter() * jitterMax

	minutes := estimateMinutesDefault
	if typ == domain.TypeExpress {
		minutes = estimateMinutesExpress
	}

	metrics.EstimatesTotal.Inc()

	return domain.Estimate{
		EstimatedPrice: FormatPrice(price),
		EstimatedTime:  minutes,
		Currency:       "EUR",
	}, nil
}

// FormatPrice renders a price as a decimal string with two fraction digits,
// the wire format used throughout the API.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// parseCoord parses a decimal-string coordinate, naming the field in the
// validation error on failure.
func parseCoord(field, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a valid coordinate", domain.ErrValidation, field)
	}
	return f, nil
}
