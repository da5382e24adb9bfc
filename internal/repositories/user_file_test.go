package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-user-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUsers() []models.UserRecord {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return []models.UserRecord{
		{ID: "1714979289000", Username: "alice", Email: "a@x.com", Password: "secret1", CreatedAt: created},
		{ID: "1714979289001", Username: "bob", Email: "b@x.com", Password: "secret2", CreatedAt: created.Add(time.Second)},
	}
}

func TestFileUserRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))

	users, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestFileUserRepository_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "users.json")
	repo := NewFileUserRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, sampleUsers()))

	users, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleUsers(), users)

	// Loading twice without a save yields the same sequence
	again, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, again)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileUserRepository_SaveOverwrites(t *testing.T) {
	repo := NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, sampleUsers()))
	require.NoError(t, repo.SaveAll(ctx, sampleUsers()[:1]))

	users, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleUsers()[:1], users)
}

func TestFileUserRepository_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo := NewFileUserRepository(path)

	require.NoError(t, repo.SaveAll(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileUserRepository_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileUserRepository(filepath.Join(dir, "users.json"))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveAll(context.Background(), sampleUsers()))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users.json", entries[0].Name())
}

func TestFileUserRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewFileUserRepository(path)

	users, err := repo.LoadAll(context.Background())
	assert.ErrorIs(t, err, ErrCorruptDocument)
	assert.Nil(t, users)
}

func TestFileUserRepository_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	repo := NewFileUserRepository(path)

	users, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestFileUserRepository_UnreadablePath(t *testing.T) {
	// A directory where the file should be cannot be read as a document
	dir := t.TempDir()
	repo := NewFileUserRepository(dir)

	users, err := repo.LoadAll(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptDocument)
	assert.Nil(t, users)
}

func TestFileUserRepository_CanceledContext(t *testing.T) {
	repo := NewFileUserRepository(filepath.Join(t.TempDir(), "users.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = repo.SaveAll(ctx, sampleUsers())
	assert.ErrorIs(t, err, context.Canceled)
}
