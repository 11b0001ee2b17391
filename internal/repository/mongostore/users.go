package mongostore

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/internal/repository"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Password     string    `bson:"password"`
	ProfileImage string    `bson:"profileImage,omitempty"`
	Bio          string    `bson:"bio,omitempty"`
	Followers    []string  `bson:"followers"`
	Following    []string  `bson:"following"`
	Saved        []string  `bson:"saved"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Password:     d.Password,
		ProfileImage: d.ProfileImage,
		Bio:          d.Bio,
		Followers:    lo.Ternary(d.Followers == nil, []string{}, d.Followers),
		Following:    lo.Ternary(d.Following == nil, []string{}, d.Following),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type userRepository struct {
	users *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ts := now()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt, user.UpdatedAt = ts, ts
	doc := userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Password:     user.Password,
		ProfileImage: user.ProfileImage,
		Bio:          user.Bio,
		Followers:    []string{},
		Following:    []string{},
		Saved:        []string{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	user.Followers, user.Following = []string{}, []string{}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []*userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return lo.Map(docs, func(d *userDocument, _ int) *model.User { return d.toModel() }), nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, changes model.ProfileChanges) error {
	set := bson.M{}
	if changes.Name != "" {
		set["name"] = changes.Name
	}
	if changes.PasswordHash != "" {
		set["password"] = changes.PasswordHash
	}
	if changes.Bio != "" {
		set["bio"] = changes.Bio
	}
	if changes.ProfileImage != "" {
		set["profileImage"] = changes.ProfileImage
	}
	if len(set) == 0 {
		return nil
	}
	set["updatedAt"] = now()
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}
