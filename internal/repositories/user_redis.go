package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-user-store/internal/logger"
	"github.com/sbilibin2017/gw-user-store/internal/models"
)

// RedisUserRepository stores the user collection as one string value without expiry.
type RedisUserRepository struct {
	client *redis.Client
	key    string
}

// NewRedisUserRepository creates a new RedisUserRepository instance.
func NewRedisUserRepository(client *redis.Client, key string) *RedisUserRepository {
	return &RedisUserRepository{client: client, key: key}
}

// LoadAll reads the document key; a missing key yields an empty collection.
func (r *RedisUserRepository) LoadAll(ctx context.Context) ([]models.UserRecord, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()

	logger.Log.Infow("redis get",
		"key", r.key,
		"bytes", len(val),
		"error", err,
	)

	if errors.Is(err, redis.Nil) {
		return []models.UserRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	users, err := decodeUsers(val)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", r.key, err)
	}
	return users, nil
}

// SaveAll writes the document key without expiry.
func (r *RedisUserRepository) SaveAll(ctx context.Context, users []models.UserRecord) error {
	document, err := encodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	err = r.client.Set(ctx, r.key, document, 0).Err()

	logger.Log.Infow("redis set",
		"key", r.key,
		"count", len(users),
		"error", err,
	)

	return err
}
