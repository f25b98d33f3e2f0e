package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factgate/factgate/internal/testutil"
)

func TestRedisArtifactRepo_PutGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := NewRedisArtifactRepo(client)
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		key := "screenshot:example.com:job-1"
		data := []byte{0x89, 'P', 'N', 'G'}

		require.NoError(t, repo.Put(ctx, key, data, time.Hour))

		got, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, data, got)

		// TTL is applied to the stored artifact.
		ttl := client.TTL(ctx, "artifact:"+key).Val()
		assert.True(t, ttl > 0 && ttl <= time.Hour)
	})

	t.Run("missing artifact", func(t *testing.T) {
		_, err := repo.Get(ctx, "screenshot:missing:job-x")
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		assert.Error(t, repo.Put(ctx, "", nil, time.Hour))
		_, err := repo.Get(ctx, "")
		assert.Error(t, err)
	})
}
