package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	selectDocumentQuery = `SELECT document\s+FROM user_documents\s+WHERE name = \$1`
	upsertDocumentQuery = `INSERT INTO user_documents \(name, document, updated_at\)`
)

func newMockPostgresRepository(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresUserRepository(sqlx.NewDb(db, "sqlmock"), "users"), mock
}

func TestPostgresUserRepository_LoadAll(t *testing.T) {
	t.Run("document present", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)
		document, err := encodeUsers(sampleUsers())
		require.NoError(t, err)

		mock.ExpectQuery(selectDocumentQuery).
			WithArgs("users").
			WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow(document))

		users, err := repo.LoadAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sampleUsers(), users)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row is empty", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)

		mock.ExpectQuery(selectDocumentQuery).
			WithArgs("users").
			WillReturnRows(sqlmock.NewRows([]string{"document"}))

		users, err := repo.LoadAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt document", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)

		mock.ExpectQuery(selectDocumentQuery).
			WithArgs("users").
			WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{"oops":`)))

		users, err := repo.LoadAll(context.Background())
		assert.ErrorIs(t, err, ErrCorruptDocument)
		assert.Nil(t, users)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(selectDocumentQuery).
			WithArgs("users").
			WillReturnError(dbErr)

		users, err := repo.LoadAll(context.Background())
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, users)
	})
}

func TestPostgresUserRepository_SaveAll(t *testing.T) {
	t.Run("upsert", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)
		document, err := encodeUsers(sampleUsers())
		require.NoError(t, err)

		mock.ExpectExec(upsertDocumentQuery).
			WithArgs("users", string(document)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SaveAll(context.Background(), sampleUsers()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil collection stored as empty array", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)

		mock.ExpectExec(upsertDocumentQuery).
			WithArgs("users", "[]").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SaveAll(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newMockPostgresRepository(t)
		dbErr := errors.New("disk full")

		mock.ExpectExec(upsertDocumentQuery).
			WithArgs("users", sqlmock.AnyArg()).
			WillReturnError(dbErr)

		assert.ErrorIs(t, repo.SaveAll(context.Background(), sampleUsers()), dbErr)
	})
}

func TestPostgresUserRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockPostgresRepository(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS user_documents`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestPostgresUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	repo := NewPostgresUserRepository(db, "users")
	require.NoError(t, repo.EnsureSchema(ctx))

	users, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.SaveAll(ctx, sampleUsers()))
	users, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleUsers(), users)

	require.NoError(t, repo.SaveAll(ctx, sampleUsers()[:1]))
	users, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleUsers()[:1], users)

	// Other document names are independent
	other := NewPostgresUserRepository(db, "staging")
	users, err = other.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
