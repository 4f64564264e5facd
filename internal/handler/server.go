// Package handler implements the HTTP handlers for the delivery API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, delivery.go, etc.) but all share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// DeliveryServicer defines the business operations the delivery handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type DeliveryServicer interface {
	Create(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error)
	GetByID(ctx context.Context, id int64) (domain.DeliveryDetail, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Delivery, error)
	ListByDriver(ctx context.Context, driverID int64) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DeliveryStatus, driverID *int64) (domain.Delivery, error)
}

// EstimateServicer computes price/time quotes independent of any delivery.
type EstimateServicer interface {
	Quote(typ domain.DeliveryType, pickupLat, pickupLng, deliveryLat, deliveryLng *string) (domain.Estimate, error)
}

// UserServicer defines the signup/login operations the user handlers depend on.
type UserServicer interface {
	Register(ctx context.Context, username, password, fullName, email, phone string) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, string, error)
}

// AddressServicer defines the address operations the address handlers depend on.
type AddressServicer interface {
	Create(ctx context.Context, address domain.Address) (domain.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Address, error)
}

// DriverServicer defines the driver operations the driver handlers depend on.
type DriverServicer interface {
	ListAvailable(ctx context.Context) ([]domain.Driver, error)
	UpdateLocation(ctx context.Context, id int64, lat, lng string) (domain.Driver, error)
}

// Server implements the HTTP handlers for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	deliveries DeliveryServicer
	estimates  EstimateServicer
	users      UserServicer
	addresses  AddressServicer
	drivers    DriverServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(deliveries DeliveryServicer, estimates EstimateServicer, users UserServicer, addresses AddressServicer, drivers DriverServicer) *Server {
	return &Server{
		deliveries: deliveries,
		estimates:  estimates,
		users:      users,
		addresses:  addresses,
		drivers:    drivers,
	}
}

// Routes returns the router for the full /api surface.
// Static segments ("/deliveries/user/…") are registered alongside the
// parameterized "/deliveries/{id}"; chi matches static routes first.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.GetHealth)

		r.Post("/register", s.Register)
		r.Post("/login", s.Login)

		r.Get("/addresses/{userID}", s.ListAddresses)
		r.Post("/addresses", s.CreateAddress)

		r.Get("/drivers", s.ListDrivers)
		r.Patch("/drivers/{id}/location", s.UpdateDriverLocation)

		r.Post("/deliveries", s.CreateDelivery)
		r.Get("/deliveries/user/{userID}", s.ListUserDeliveries)
		r.Get("/deliveries/driver/{driverID}", s.ListDriverDeliveries)
		r.Get("/deliveries/{id}", s.GetDelivery)
		r.Patch("/deliveries/{id}/status", s.UpdateDeliveryStatus)

		r.Post("/estimate", s.Estimate)
	})
	return r
}
