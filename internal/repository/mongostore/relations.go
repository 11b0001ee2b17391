package mongostore

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialgram/internal/repository"
	"github.com/d60-Lab/socialgram/pkg/logger"
)

// userCollection relationRepository 用到的 users 集合操作，*mongo.Collection 即满足
type userCollection interface {
	UpdateOne(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// relationRepository 两次独立写：follower.following 与 followee.followers。
// 第二次写失败时撤销第一次写，撤销本身失败则留给巡检修复。
type relationRepository struct {
	users userCollection
}

type relationDocument struct {
	ID        string   `bson:"_id"`
	Followers []string `bson:"followers"`
	Following []string `bson:"following"`
}

func (r *relationRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": followerID, "following": bson.M{"$ne": followeeID}},
		bson.M{"$push": bson.M{"following": followeeID}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missOrDuplicate(ctx, followerID)
	}

	if _, err := r.users.UpdateOne(ctx,
		bson.M{"_id": followeeID},
		bson.M{"$addToSet": bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now()}},
	); err != nil {
		r.compensate(ctx, followerID, bson.M{"$pull": bson.M{"following": followeeID}})
		return fmt.Errorf("write followers of %s: %w", followeeID, err)
	}
	return nil
}

func (r *relationRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": followerID, "following": followeeID},
		bson.M{"$pull": bson.M{"following": followeeID}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	if _, err := r.users.UpdateOne(ctx,
		bson.M{"_id": followeeID},
		bson.M{"$pull": bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now()}},
	); err != nil {
		r.compensate(ctx, followerID, bson.M{"$addToSet": bson.M{"following": followeeID}})
		return fmt.Errorf("remove followers of %s: %w", followeeID, err)
	}
	return nil
}

func (r *relationRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": followerID, "following": followeeID})
	return n > 0, err
}

func (r *relationRepository) Following(ctx context.Context, userID string) ([]string, error) {
	doc, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Ternary(doc.Following == nil, []string{}, doc.Following), nil
}

func (r *relationRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	doc, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Ternary(doc.Followers == nil, []string{}, doc.Followers), nil
}

// Asymmetries 全量扫描两个数组并在内存中比对
func (r *relationRepository) Asymmetries(ctx context.Context, limit int) ([]repository.Asymmetry, error) {
	if limit <= 0 {
		limit = 500
	}
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"followers": 1, "following": 1}))
	if err != nil {
		return nil, err
	}
	var docs []relationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	followers := make(map[string]map[string]struct{}, len(docs))
	following := make(map[string]map[string]struct{}, len(docs))
	for _, d := range docs {
		followers[d.ID] = lo.Associate(d.Followers, func(id string) (string, struct{}) { return id, struct{}{} })
		following[d.ID] = lo.Associate(d.Following, func(id string) (string, struct{}) { return id, struct{}{} })
	}

	var res []repository.Asymmetry
	for _, d := range docs {
		for _, followee := range d.Following {
			if _, ok := followers[followee][d.ID]; !ok {
				res = append(res, repository.Asymmetry{FollowerID: d.ID, FolloweeID: followee, MissingFan: true})
				if len(res) >= limit {
					return res, nil
				}
			}
		}
	}
	for _, d := range docs {
		for _, fan := range d.Followers {
			if _, ok := following[fan][d.ID]; !ok {
				res = append(res, repository.Asymmetry{FollowerID: fan, FolloweeID: d.ID})
				if len(res) >= limit {
					return res, nil
				}
			}
		}
	}
	return res, nil
}

func (r *relationRepository) Repair(ctx context.Context, a repository.Asymmetry) error {
	op := "$pull"
	if a.MissingFan {
		op = "$addToSet"
	}
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": a.FolloweeID}, bson.M{op: bson.M{"followers": a.FollowerID}})
	return err
}

func (r *relationRepository) load(ctx context.Context, userID string) (*relationDocument, error) {
	var doc relationDocument
	err := r.users.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"followers": 1, "following": 1}),
	).Decode(&doc)
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// missOrDuplicate 条件更新未命中时区分用户不存在与已关注
func (r *relationRepository) missOrDuplicate(ctx context.Context, userID string) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return repository.ErrDuplicate
}

func (r *relationRepository) compensate(ctx context.Context, userID string, update bson.M) {
	if _, err := r.users.UpdateOne(context.WithoutCancel(ctx), bson.M{"_id": userID}, update); err != nil {
		logger.Error("relation compensation failed, left for reconciler",
			zap.String("user", userID), zap.Error(err))
	}
}
