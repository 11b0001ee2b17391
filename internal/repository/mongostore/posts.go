package mongostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
)

type commentDocument struct {
	ID        string    `bson:"_id"`
	Comment   string    `bson:"comment"`
	UserID    string    `bson:"userId"`
	UserName  string    `bson:"userName"`
	UserImage string    `bson:"userImage,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

type postDocument struct {
	ID        string            `bson:"_id"`
	Image     string            `bson:"image"`
	Title     string            `bson:"title"`
	Likes     []string          `bson:"likes"`
	Comments  []commentDocument `bson:"comments"`
	UserID    string            `bson:"userId"`
	UserName  string            `bson:"userName"`
	CreatedAt time.Time         `bson:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

func (d *postDocument) toModel() *model.Post {
	return &model.Post{
		ID:     d.ID,
		Image:  d.Image,
		Title:  d.Title,
		Likes:  lo.Ternary(d.Likes == nil, []string{}, d.Likes),
		UserID: d.UserID,
		Comments: lo.Map(d.Comments, func(c commentDocument, _ int) model.Comment {
			return model.Comment{
				ID:        c.ID,
				PostID:    d.ID,
				Comment:   c.Comment,
				UserID:    c.UserID,
				UserName:  c.UserName,
				UserImage: c.UserImage,
				CreatedAt: c.CreatedAt,
			}
		}),
		UserName:  d.UserName,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type postRepository struct {
	posts *mongo.Collection
	users *mongo.Collection
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	ts := now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = ts
	}
	post.UpdatedAt = ts
	post.Likes, post.Comments = []string{}, []model.Comment{}
	doc := postDocument{
		ID:        post.ID,
		Image:     post.Image,
		Title:     post.Title,
		Likes:     []string{},
		Comments:  []commentDocument{},
		UserID:    post.UserID,
		UserName:  post.UserName,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	_, err := r.posts.InsertOne(ctx, doc)
	return translate(err)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var doc postDocument
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

// Delete 删除帖子并从所有用户的收藏中移除
func (r *postRepository) Delete(ctx context.Context, id string) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	_, err = r.users.UpdateMany(ctx, bson.M{"saved": id}, bson.M{"$pull": bson.M{"saved": id}})
	return err
}

func (r *postRepository) UpdateTitle(ctx context.Context, id, title string) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"title": title, "updatedAt": now()}})
}

func (r *postRepository) List(ctx context.Context) ([]*model.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *postRepository) SearchTitle(ctx context.Context, query string) ([]*model.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}
	return r.find(ctx, bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}})
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) error {
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.posts.CountDocuments(ctx, bson.M{"_id": postID})
		if err != nil {
			return err
		}
		return lo.Ternary(n == 0, repository.ErrNotFound, repository.ErrDuplicate)
	}
	return nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateOne(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now()}},
	)
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now()
	}
	comment.PostID = postID
	doc := commentDocument{
		ID:        comment.ID,
		Comment:   comment.Comment,
		UserID:    comment.UserID,
		UserName:  comment.UserName,
		UserImage: comment.UserImage,
		CreatedAt: comment.CreatedAt,
	}
	return r.updateOne(ctx, bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": doc}, "$set": bson.M{"updatedAt": now()}})
}

func (r *postRepository) AddSave(ctx context.Context, postID, userID string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID, "saved": bson.M{"$ne": postID}},
		bson.M{"$push": bson.M{"saved": postID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrDuplicate
	}
	return nil
}

func (r *postRepository) RemoveSave(ctx context.Context, postID, userID string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID, "saved": postID},
		bson.M{"$pull": bson.M{"saved": postID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postRepository) IsSaved(ctx context.Context, postID, userID string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": userID, "saved": postID})
	return n > 0, err
}

func (r *postRepository) ListSaved(ctx context.Context, userID string) ([]*model.Post, error) {
	var doc struct {
		Saved []string `bson:"saved"`
	}
	if err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	if len(doc.Saved) == 0 {
		return []*model.Post{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": doc.Saved}})
}

func (r *postRepository) find(ctx context.Context, filter bson.M) ([]*model.Post, error) {
	cur, err := r.posts.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	var docs []*postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return lo.Map(docs, func(d *postDocument, _ int) *model.Post { return d.toModel() }), nil
}

func (r *postRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
