package cache

import (
	"testing"

	"github.com/napsterimports/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	t.Run("disabled redis uses memory", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false}, WithLogger(zaptest.NewLogger(t)))
		store, err := f.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachableRedis, WithLogger(zaptest.NewLogger(t)))
		store, err := f.CreateStore()
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachableRedis, WithInMemoryFallback(false))
		store, err := f.CreateStore()
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestNewRedisIdempotencyStoreWithClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	store := NewRedisIdempotencyStoreWithClient(client, "")
	assert.Equal(t, DefaultKeyPrefix, store.KeyPrefix())
	assert.NoError(t, store.Close())

	custom := NewRedisIdempotencyStoreWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "test:")
	assert.Equal(t, "test:", custom.KeyPrefix())
	assert.NoError(t, custom.Close())
}
