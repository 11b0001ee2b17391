package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgram/config"
	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/events"
	"github.com/d60-Lab/socialgram/internal/model"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"}}

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Users.Create(ctx, &model.User{ID: "u1", Name: "ana", Email: "ana@x.com", Password: "h"}))
	u, err := store.Users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Name)
}

func TestUserCache(t *testing.T) {
	ctx := context.Background()

	c, closeFn, err := UserCache(ctx, config.RedisConfig{})
	require.NoError(t, err)
	assert.IsType(t, cache.Nop{}, c)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	c, closeFn, err = UserCache(ctx, config.RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	assert.IsType(t, &cache.RedisUserCache{}, c)

	_, _, err = UserCache(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestPublisher_DisabledWithoutURL(t *testing.T) {
	pub, closeFn, err := Publisher(config.NATSConfig{})
	require.NoError(t, err)
	assert.IsType(t, events.Nop{}, pub)
	assert.NoError(t, closeFn())
}
