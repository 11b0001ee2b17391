package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/d60-Lab/socialgram/internal/model"
)

type userRepository struct {
	db         *gorm.DB
	followRepo FollowRepository
	fanRepo    FanRepository
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, followRepo: NewFollowRepository(db), fanRepo: NewFanRepository(db)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	user.Followers, user.Following = []string{}, []string{}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.loadRelations(ctx, []*model.User{&u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.loadRelations(ctx, []*model.User{&u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, changes model.ProfileChanges) error {
	updates := map[string]any{}
	if changes.Name != "" {
		updates["name"] = changes.Name
	}
	if changes.PasswordHash != "" {
		updates["password"] = changes.PasswordHash
	}
	if changes.Bio != "" {
		updates["bio"] = changes.Bio
	}
	if changes.ProfileImage != "" {
		updates["profile_image"] = changes.ProfileImage
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// loadRelations 批量回填 following（follows 表）与 followers（fans 表）
func (r *userRepository) loadRelations(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := lo.Map(users, func(u *model.User, _ int) string { return u.ID })

	follows, err := r.followRepo.ListByFollowers(ctx, ids)
	if err != nil {
		return fmt.Errorf("load following: %w", err)
	}
	fans, err := r.fanRepo.ListByUsers(ctx, ids)
	if err != nil {
		return fmt.Errorf("load followers: %w", err)
	}

	following := lo.GroupBy(follows, func(f *model.Follow) string { return f.FollowerID })
	followers := lo.GroupBy(fans, func(f *model.Fan) string { return f.UserID })
	for _, u := range users {
		u.Following = lo.Map(following[u.ID], func(f *model.Follow, _ int) string { return f.FolloweeID })
		u.Followers = lo.Map(followers[u.ID], func(f *model.Fan, _ int) string { return f.FanID })
	}
	return nil
}
