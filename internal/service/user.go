package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/repo"
)

// minPasswordLen is the minimum accepted password length at registration.
const minPasswordLen = 8

// UserService implements signup and login. Passwords are stored only as
// bcrypt hashes. Sessions are opaque random tokens held in memory; they do
// not survive a restart, which is acceptable for this application.
type UserService struct {
	users repo.UserRepo

	mu       sync.Mutex
	sessions map[string]int64 // token → user id
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users, sessions: make(map[string]int64)}
}

// Register validates the signup input, hashes the password, and creates the
// user. Returns domain.ErrValidation when a field is invalid or the username
// is already taken.
func (s *UserService) Register(ctx context.Context, username, password, fullName, email, phone string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	if strings.TrimSpace(fullName) == "" {
		return domain.User{}, fmt.Errorf("%w: fullName is required", domain.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return domain.User{}, fmt.Errorf("%w: username is already taken", domain.ErrValidation)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: hash: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		Phone:        phone,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return created, nil
}

// Login verifies the credentials and returns the user with a fresh session
// token. An unknown username and a wrong password produce the same
// validation error, so login failures do not reveal which part was wrong.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrValidation)
		}
		return domain.User{}, "", fmt.Errorf("service.UserService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrValidation)
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = user.ID
	s.mu.Unlock()

	return user, token, nil
}

// UserForToken resolves a session token to the user id it was issued for.
// Returns domain.ErrNotFound for unknown tokens.
func (s *UserService) UserForToken(token string) (int64, error) {
	s.mu.Lock()
	id, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
