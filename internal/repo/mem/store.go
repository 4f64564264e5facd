// Package mem provides in-memory implementations of the repo interfaces.
// A single Store owns all entity maps, the id counters, and the order-number
// sequence; it is instantiated once per process and injected wherever a repo
// is needed. Behavior is identical to the Postgres implementations: same
// sentinel errors, same defaulting on create, same soft-fail lookups.
package mem

import (
	"sync"
	"time"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// Store is the shared state behind the in-memory repos.
// All access goes through mu; values are copied in and out so callers can
// never alias internal state.
type Store struct {
	mu sync.Mutex

	users      map[int64]domain.User
	addresses  map[int64]domain.Address
	drivers    map[int64]domain.Driver
	deliveries map[int64]domain.Delivery

	nextUserID     int64
	nextAddressID  int64
	nextDriverID   int64
	nextDeliveryID int64
	orderSeq       int64

	// now is the clock; overridable in tests.
	now func() time.Time
}

// NewStore returns an empty Store with all sequences starting at 1.
func NewStore() *Store {
	return &Store{
		users:      make(map[int64]domain.User),
		addresses:  make(map[int64]domain.Address),
		drivers:    make(map[int64]domain.Driver),
		deliveries: make(map[int64]domain.Delivery),
		now:        time.Now,
	}
}

// Users returns the in-memory UserRepo backed by this store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Addresses returns the in-memory AddressRepo backed by this store.
func (s *Store) Addresses() *AddressRepo { return &AddressRepo{s: s} }

// Drivers returns the in-memory DriverRepo backed by this store.
func (s *Store) Drivers() *DriverRepo { return &DriverRepo{s: s} }

// Deliveries returns the in-memory DeliveryRepo backed by this store.
func (s *Store) Deliveries() *DeliveryRepo { return &DeliveryRepo{s: s} }
