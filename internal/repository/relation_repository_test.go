package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/internal/repository/repotest"
)

func TestRelationRepository_FollowWritesBothSides(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.Relations.Follow(ctx, "a", "b"))

	following, err := store.Relations.Following(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, following)

	followers, err := store.Relations.Followers(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, followers)

	ok, err := store.Relations.IsFollowing(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, store.Relations.Follow(ctx, "a", "b"), repository.ErrDuplicate)
}

func TestRelationRepository_UnfollowRemovesBothSides(t *testing.T) {
	store := repotest.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.Relations.Follow(ctx, "a", "b"))
	require.NoError(t, store.Relations.Unfollow(ctx, "a", "b"))

	following, err := store.Relations.Following(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, following)
	followers, err := store.Relations.Followers(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, followers)

	assert.ErrorIs(t, store.Relations.Unfollow(ctx, "a", "b"), repository.ErrNotFound)
}

func TestRelationRepository_AsymmetriesAndRepair(t *testing.T) {
	db := repotest.NewDB(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	// 只写了 following 一侧
	require.NoError(t, repository.NewFollowRepository(db).Create(ctx, "a", "b"))
	// 只剩 followers 一侧
	require.NoError(t, repository.NewFanRepository(db).Create(ctx, "d", "c"))
	// 完整关系不应被报告
	require.NoError(t, store.Relations.Follow(ctx, "e", "f"))

	found, err := store.Auditor.Asymmetries(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []repository.Asymmetry{
		{FollowerID: "a", FolloweeID: "b", MissingFan: true},
		{FollowerID: "c", FolloweeID: "d", MissingFan: false},
	}, found)

	for _, a := range found {
		require.NoError(t, store.Auditor.Repair(ctx, a))
	}

	found, err = store.Auditor.Asymmetries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	followers, err := store.Relations.Followers(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, followers)
	followers, err = store.Relations.Followers(ctx, "d")
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestRelationRepository_AsymmetriesRespectsLimit(t *testing.T) {
	db := repotest.NewDB(t)
	store := repository.NewGormStore(db)
	ctx := context.Background()

	follows := repository.NewFollowRepository(db)
	for i := 0; i < 5; i++ {
		require.NoError(t, follows.Create(ctx, fmt.Sprintf("u%d", i), "celeb"))
	}
	found, err := store.Auditor.Asymmetries(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func BenchmarkFollowWrite(b *testing.B) {
	store := repotest.NewStore(b)
	ctx := context.Background()

	users := make([]*model.User, 200)
	for i := range users {
		users[i] = &model.User{ID: fmt.Sprintf("u%04d", i), Name: fmt.Sprintf("u%04d", i), Email: fmt.Sprintf("u%04d@example.com", i), Password: "p"}
		if err := store.Users.Create(ctx, users[i]); err != nil {
			b.Fatalf("seed users: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[i%len(users)].ID
		to := users[(i/len(users)+1+i)%len(users)].ID
		if from == to {
			continue
		}
		_ = store.Relations.Follow(ctx, from, to)
	}
}

func BenchmarkQueryFansAndFollowing(b *testing.B) {
	store := repotest.NewStore(b)
	ctx := context.Background()

	// 一个用户 u0 有 N 个粉丝，同时 u0 也关注 N 个用户
	const N = 500
	for i := 1; i <= N; i++ {
		uid := fmt.Sprintf("u%d", i)
		_ = store.Relations.Follow(ctx, uid, "u0")
		_ = store.Relations.Follow(ctx, "u0", uid)
	}

	b.ResetTimer()
	b.Run("Followers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = store.Relations.Followers(ctx, "u0")
		}
	})
	b.Run("Following", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = store.Relations.Following(ctx, "u0")
		}
	})
}
