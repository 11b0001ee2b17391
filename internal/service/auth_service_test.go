package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgram/internal/cache"
	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository/repotest"
	"github.com/d60-Lab/socialgram/internal/service"
	"github.com/d60-Lab/socialgram/pkg/jwtutil"
)

func TestAuthService_Verify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.register(t, "ana")

	token, err := e.auth.IssueToken(ana.ID)
	require.NoError(t, err)
	got, err := e.auth.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)
	assert.Empty(t, got.Password)

	cases := map[string]string{
		"empty":     "",
		"malformed": "not-a-token",
	}
	other, err := jwtutil.NewManager("another-secret", time.Hour).Generate(ana.ID)
	require.NoError(t, err)
	cases["wrong secret"] = other
	ghost, err := e.auth.IssueToken("ghost")
	require.NoError(t, err)
	cases["unknown user"] = ghost

	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.auth.Verify(ctx, tok)
			assert.ErrorIs(t, err, service.ErrUnauthenticated)
		})
	}
}

func TestAuthService_VerifyReadsThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	userCache := cache.NewRedisUserCache(client, time.Minute)

	store := repotest.NewStore(t)
	ctx := context.Background()
	require.NoError(t, store.Users.Create(ctx, &model.User{ID: "u1", Name: "ana", Email: "ana@x.com", Password: "h"}))

	auth := service.NewAuthService(jwtutil.NewManager("s", time.Hour), store.Users, userCache)
	token, err := auth.IssueToken("u1")
	require.NoError(t, err)

	_, err = auth.Verify(ctx, token)
	require.NoError(t, err)
	assert.True(t, mr.Exists("user:u1"))

	cached, ok := userCache.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, "ana", cached.Name)
}
