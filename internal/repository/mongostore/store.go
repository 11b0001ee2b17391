// Package mongostore 文档型后端：关注集合、点赞与评论以内嵌数组存放在文档上
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/d60-Lab/socialgram/internal/repository"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// NewStore 组装文档型后端的仓储
func NewStore(client *mongo.Client, database string) *repository.Store {
	db := client.Database(database)
	users := db.Collection(usersCollection)
	posts := db.Collection(postsCollection)
	rel := &relationRepository{users: users}
	return &repository.Store{
		Users:     &userRepository{users: users},
		Relations: rel,
		Auditor:   rel,
		Posts:     &postRepository{posts: posts, users: users},
		Close: func() error {
			return client.Disconnect(context.Background())
		},
	}
}

// EnsureIndexes 创建邮箱唯一索引与帖子时间索引
func EnsureIndexes(ctx context.Context, client *mongo.Client, database string) error {
	db := client.Database(database)
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("ux_users_email"),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	if _, err := db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("create posts indexes: %w", err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func now() time.Time { return time.Now().UTC() }

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
