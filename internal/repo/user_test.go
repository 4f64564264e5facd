package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoedpakketjes/backend/internal/domain"
	"github.com/spoedpakketjes/backend/internal/repo"
)

func userFixture() domain.User {
	return domain.User{
		Username:     "lisa",
		PasswordHash: "$2a$10$notarealhashbutlongenough",
		FullName:     "Lisa Jansen",
		Email:        "lisa@example.com",
		Phone:        "+31612345678",
	}
}

func TestUserRepo_Create(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	got, err := r.Create(ctx, userFixture())

	require.NoError(t, err)
	assert.Positive(t, got.ID, "ID should be DB-generated")
	assert.Equal(t, "lisa", got.Username)
	assert.Equal(t, "Lisa Jansen", got.FullName)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestUserRepo_GetByID(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, userFixture())
	require.NoError(t, err)

	got, err := r.GetByUsername(ctx, "lisa")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = r.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
