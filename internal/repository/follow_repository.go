package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/socialgram/internal/model"
)

// FollowRepository following 集合（follows 表）
type FollowRepository interface {
	// Create 重复关注返回 ErrDuplicate
	Create(ctx context.Context, followerID, followeeID string) error
	// Delete 关系不存在返回 ErrNotFound
	Delete(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowings(ctx context.Context, followerID string) ([]*model.Follow, error)
	ListByFollowers(ctx context.Context, followerIDs []string) ([]*model.Follow, error)
	WithTx(tx *gorm.DB) FollowRepository
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) WithTx(tx *gorm.DB) FollowRepository { return &followRepository{db: tx} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("follower_id = ?", followerID).Order("created_at").Find(&res).Error
	return res, err
}

func (r *followRepository) ListByFollowers(ctx context.Context, followerIDs []string) ([]*model.Follow, error) {
	var res []*model.Follow
	if len(followerIDs) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Where("follower_id IN ?", followerIDs).Order("created_at").Find(&res).Error
	return res, err
}
