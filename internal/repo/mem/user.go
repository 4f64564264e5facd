package mem

import (
	"context"
	"fmt"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// UserRepo is the in-memory implementation of repo.UserRepo.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = r.s.now().UTC()
	r.s.users[user.ID] = user
	return user, nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("mem.UserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return user, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, fmt.Errorf("mem.UserRepo.GetByUsername: %w", domain.ErrNotFound)
}
