package mem

import "github.com/spoedpakketjes/backend/internal/repo"

// Compile-time checks: the in-memory repos must satisfy the same interfaces
// as the Postgres implementations.
var (
	_ repo.UserRepo     = (*UserRepo)(nil)
	_ repo.AddressRepo  = (*AddressRepo)(nil)
	_ repo.DriverRepo   = (*DriverRepo)(nil)
	_ repo.DeliveryRepo = (*DeliveryRepo)(nil)
)
