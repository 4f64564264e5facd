package mem

import (
	"context"
	"fmt"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// AddressRepo is the in-memory implementation of repo.AddressRepo.
type AddressRepo struct {
	s *Store
}

func (r *AddressRepo) Create(_ context.Context, address domain.Address) (domain.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextAddressID++
	address.ID = r.s.nextAddressID
	r.s.addresses[address.ID] = address
	return address, nil
}

func (r *AddressRepo) GetByID(_ context.Context, id int64) (domain.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	address, ok := r.s.addresses[id]
	if !ok {
		return domain.Address{}, fmt.Errorf("mem.AddressRepo.GetByID: %w", domain.ErrNotFound)
	}
	return address, nil
}

func (r *AddressRepo) ListByUserID(_ context.Context, userID int64) ([]domain.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var addresses []domain.Address
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			addresses = append(addresses, a)
		}
	}
	return addresses, nil
}
