package mongostore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/pkg/logger"
)

var errWrite = errors.New("write concern timeout")

type updateCall struct {
	filter bson.M
	update bson.M
	ctxErr error
}

// fakeUsers 记录每次 UpdateOne，failOn 中的调用序号（从 1 开始）返回 errWrite
type fakeUsers struct {
	calls   []updateCall
	failOn  map[int]bool
	matched int64
	count   int64
	docs    []interface{}
	doc     interface{}
}

func (f *fakeUsers) UpdateOne(ctx context.Context, filter interface{}, update interface{},
	_ ...*options.UpdateOptions,
) (*mongo.UpdateResult, error) {
	f.calls = append(f.calls, updateCall{filter: filter.(bson.M), update: update.(bson.M), ctxErr: ctx.Err()})
	if f.failOn[len(f.calls)] {
		return nil, errWrite
	}
	return &mongo.UpdateResult{MatchedCount: f.matched, ModifiedCount: f.matched}, nil
}

func (f *fakeUsers) CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error) {
	return f.count, nil
}

func (f *fakeUsers) FindOne(context.Context, interface{}, ...*options.FindOneOptions) *mongo.SingleResult {
	if f.doc == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(f.doc, nil, nil)
}

func (f *fakeUsers) Find(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error) {
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.ErrorLevel)
	prev := logger.L()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })
	return logs
}

func TestRelationRepository_FollowWritesBothSides(t *testing.T) {
	users := &fakeUsers{matched: 1}
	repo := &relationRepository{users: users}

	require.NoError(t, repo.Follow(context.Background(), "ana", "bia"))
	require.Len(t, users.calls, 2)
	assert.Equal(t, "ana", users.calls[0].filter["_id"])
	assert.Equal(t, bson.M{"following": "bia"}, users.calls[0].update["$push"])
	assert.Equal(t, "bia", users.calls[1].filter["_id"])
	assert.Equal(t, bson.M{"followers": "ana"}, users.calls[1].update["$addToSet"])
}

func TestRelationRepository_FollowRevertsFollowingWhenFollowersWriteFails(t *testing.T) {
	logs := observeLogs(t)
	users := &fakeUsers{matched: 1, failOn: map[int]bool{2: true}}
	repo := &relationRepository{users: users}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := repo.Follow(ctx, "ana", "bia")
	require.Error(t, err)
	assert.ErrorIs(t, err, errWrite)

	require.Len(t, users.calls, 3)
	undo := users.calls[2]
	assert.Equal(t, bson.M{"_id": "ana"}, undo.filter)
	assert.Equal(t, bson.M{"$pull": bson.M{"following": "bia"}}, undo.update)
	assert.NoError(t, undo.ctxErr, "revert must not inherit request cancellation")
	assert.Zero(t, logs.Len())
}

func TestRelationRepository_UnfollowRestoresFollowingWhenFollowersWriteFails(t *testing.T) {
	users := &fakeUsers{matched: 1, failOn: map[int]bool{2: true}}
	repo := &relationRepository{users: users}

	err := repo.Unfollow(context.Background(), "ana", "bia")
	assert.ErrorIs(t, err, errWrite)

	require.Len(t, users.calls, 3)
	assert.Equal(t, bson.M{"following": "bia"}, users.calls[0].update["$pull"])
	assert.Equal(t, bson.M{"_id": "ana"}, users.calls[2].filter)
	assert.Equal(t, bson.M{"$addToSet": bson.M{"following": "bia"}}, users.calls[2].update)
}

func TestRelationRepository_FailedRevertIsLoggedForReconciler(t *testing.T) {
	logs := observeLogs(t)
	users := &fakeUsers{matched: 1, failOn: map[int]bool{2: true, 3: true}}
	repo := &relationRepository{users: users}

	assert.ErrorIs(t, repo.Follow(context.Background(), "ana", "bia"), errWrite)
	require.Len(t, users.calls, 3)

	entries := logs.FilterMessage("relation compensation failed, left for reconciler").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ana", entries[0].ContextMap()["user"])
}

func TestRelationRepository_FollowGuardMiss(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  error
	}{
		{name: "already following", count: 1, want: repository.ErrDuplicate},
		{name: "follower missing", count: 0, want: repository.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{matched: 0, count: tt.count}
			repo := &relationRepository{users: users}

			assert.ErrorIs(t, repo.Follow(context.Background(), "ana", "bia"), tt.want)
			assert.Len(t, users.calls, 1, "followers side must stay untouched")
		})
	}
}

func TestRelationRepository_UnfollowWhenNotFollowing(t *testing.T) {
	users := &fakeUsers{matched: 0}
	repo := &relationRepository{users: users}

	assert.ErrorIs(t, repo.Unfollow(context.Background(), "ana", "bia"), repository.ErrNotFound)
	assert.Len(t, users.calls, 1)
}

func TestRelationRepository_FollowingAndFollowers(t *testing.T) {
	users := &fakeUsers{doc: bson.M{"_id": "ana", "following": bson.A{"bia", "caio"}}}
	repo := &relationRepository{users: users}
	ctx := context.Background()

	following, err := repo.Following(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"bia", "caio"}, following)

	followers, err := repo.Followers(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{}, followers)

	_, err = (&relationRepository{users: &fakeUsers{}}).Following(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRelationRepository_AsymmetriesAndRepair(t *testing.T) {
	users := &fakeUsers{docs: []interface{}{
		bson.M{"_id": "ana", "following": bson.A{"bia"}, "followers": bson.A{}},
		bson.M{"_id": "bia", "following": bson.A{}, "followers": bson.A{"caio"}},
		bson.M{"_id": "caio", "following": bson.A{}, "followers": bson.A{}},
	}}
	repo := &relationRepository{users: users}
	ctx := context.Background()

	found, err := repo.Asymmetries(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []repository.Asymmetry{
		{FollowerID: "ana", FolloweeID: "bia", MissingFan: true},
		{FollowerID: "caio", FolloweeID: "bia"},
	}, found)

	limited, err := repo.Asymmetries(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.Repair(ctx, found[0]))
	require.NoError(t, repo.Repair(ctx, found[1]))
	require.Len(t, users.calls, 2)
	assert.Equal(t, bson.M{"$addToSet": bson.M{"followers": "ana"}}, users.calls[0].update)
	assert.Equal(t, bson.M{"$pull": bson.M{"followers": "caio"}}, users.calls[1].update)
}
