package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	users, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.SaveAll(ctx, sampleUsers()))

	users, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleUsers(), users)

	// Callers get copies; mutating them never touches the stored collection
	users[0].Username = "mallory"
	again, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", again[0].Username)
}

func TestMemoryUserRepository_Seeded(t *testing.T) {
	seed := sampleUsers()
	repo := NewMemoryUserRepository(seed...)
	seed[1].Email = "changed@x.com"

	users, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", users[1].Email)
}
