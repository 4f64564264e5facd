package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/repo"
)

// AddressService implements business logic for Address operations.
// It holds the user repo as well because creating an address requires
// verifying the owning user exists.
type AddressService struct {
	addresses repo.AddressRepo
	users     repo.UserRepo
}

// NewAddressService constructs an AddressService backed by the provided repos.
func NewAddressService(addresses repo.AddressRepo, users repo.UserRepo) *AddressService {
	return &AddressService{addresses: addresses, users: users}
}

// Create validates the address, verifies the owning user exists, then
// persists. Returns domain.ErrValidation for invalid input,
// domain.ErrNotFound when the user does not exist.
func (s *AddressService) Create(ctx context.Context, address domain.Address) (domain.Address, error) {
	if err := validateAddress(address); err != nil {
		return domain.Address{}, err
	}
	if _, err := s.users.GetByID(ctx, address.UserID); err != nil {
		return domain.Address{}, fmt.Errorf("service.AddressService.Create: %w", err)
	}
	result, err := s.addresses.Create(ctx, address)
	if err != nil {
		return domain.Address{}, fmt.Errorf("service.AddressService.Create: %w", err)
	}
	return result, nil
}

// ListByUser returns all addresses owned by the user, unordered.
// Always returns a non-nil slice so callers can safely range over it.
func (s *AddressService) ListByUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.AddressService.ListByUser: %w", err)
	}
	if addresses == nil {
		return []domain.Address{}, nil
	}
	return addresses, nil
}

// validateAddress enforces the creation rules: owner, label, and a complete
// postal address with parseable coordinates.
func validateAddress(a domain.Address) error {
	if a.UserID <= 0 {
		return fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	for _, f := range []struct{ name, value string }{
		{"label", a.Label},
		{"street", a.Street},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	if _, err := parseCoord("latitude", a.Latitude); err != nil {
		return err
	}
	if _, err := parseCoord("longitude", a.Longitude); err != nil {
		return err
	}
	return nil
}
