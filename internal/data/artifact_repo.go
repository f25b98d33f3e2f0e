package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/factgate/factgate/internal/core"
)

// RedisArtifactRepo implements the ArtifactStore interface using Redis.
// Artifacts (scan screenshots) are best-effort archive material with a TTL;
// losing one is an acceptable degraded outcome.
type RedisArtifactRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisArtifactRepo creates a RedisArtifactRepo with the given client.
func NewRedisArtifactRepo(client redis.UniversalClient) *RedisArtifactRepo {
	return &RedisArtifactRepo{client: client, prefix: "artifact:"}
}

// Put stores an artifact under the key with the given TTL.
func (r *RedisArtifactRepo) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("store artifact %s: %w", key, err)
	}
	return nil
}

// Get retrieves an artifact by key.
func (r *RedisArtifactRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	result, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact %s: %w", key, err)
	}
	return result, nil
}

var _ core.ArtifactStore = (*RedisArtifactRepo)(nil)
