package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/models"
)

// PostgresUserRepository stores the user collection as one JSONB document row.
type PostgresUserRepository struct {
	db   *sqlx.DB
	name string
}

// NewPostgresUserRepository creates a new PostgresUserRepository instance.
func NewPostgresUserRepository(db *sqlx.DB, name string) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, name: name}
}

// EnsureSchema creates the document table if it does not exist.
func (r *PostgresUserRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS user_documents (
			name       TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := r.db.ExecContext(ctx, query)

	logger.Log.Infow("exec",
		"query", oneLine(query),
		"error", err,
	)
	return err
}

// LoadAll selects the named document; a missing row yields an empty collection.
func (r *PostgresUserRepository) LoadAll(ctx context.Context) ([]models.UserRecord, error) {
	const query = `
		SELECT document
		FROM user_documents
		WHERE name = $1
	`

	var document []byte
	err := r.db.GetContext(ctx, &document, query, r.name)

	logger.Log.Infow("select",
		"query", oneLine(query),
		"args", []any{r.name},
		"bytes", len(document),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return []models.UserRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	users, err := decodeUsers(document)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", r.name, err)
	}
	return users, nil
}

// SaveAll upserts the named document.
func (r *PostgresUserRepository) SaveAll(ctx context.Context, users []models.UserRecord) error {
	const query = `
		INSERT INTO user_documents (name, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document,
		    updated_at = NOW()
	`

	document, err := encodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, r.name, string(document))
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("upsert",
		"query", oneLine(query),
		"args", []any{r.name, len(users)},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// oneLine collapses a query onto a single line for logging.
func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
