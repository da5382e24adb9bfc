package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/models"
)

// FileUserRepository keeps the whole user collection in one JSON file.
// Writes go to a temp file in the same directory and are renamed over the
// target, so readers see either the old or the new document.
type FileUserRepository struct {
	path string
	mu   sync.RWMutex
}

// NewFileUserRepository creates a new FileUserRepository instance.
func NewFileUserRepository(path string) *FileUserRepository {
	return &FileUserRepository{path: path}
}

// LoadAll reads the document. A missing file is an empty collection;
// an unreadable or corrupt one is an error.
func (r *FileUserRepository) LoadAll(ctx context.Context) ([]models.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	data, err := os.ReadFile(r.path)
	r.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Debugw("users file not found, starting empty", "path", r.path)
		return []models.UserRecord{}, nil
	}
	if err != nil {
		logger.Log.Errorw("failed to read users file", "path", r.path, "error", err)
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	users, err := decodeUsers(data)
	logger.Log.Debugw("load users",
		"path", r.path,
		"count", len(users),
		"error", err,
	)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return users, nil
}

// SaveAll overwrites the document with exactly the given users.
func (r *FileUserRepository) SaveAll(ctx context.Context, users []models.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	r.mu.Lock()
	err = r.writeAtomic(data)
	r.mu.Unlock()

	logger.Log.Debugw("save users",
		"path", r.path,
		"count", len(users),
		"bytes", len(data),
		"error", err,
	)
	return err
}

func (r *FileUserRepository) writeAtomic(data []byte) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
