package repository

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/d60-Lab/socialgram/internal/model"
)

// relationRepository 在同一事务内写 follows 与 fans 两张表
type relationRepository struct {
	db         *gorm.DB
	followRepo FollowRepository
	fanRepo    FanRepository
}

// RelationStore 关系仓储与巡检能力
type RelationStore interface {
	RelationRepository
	RelationAuditor
}

func NewRelationRepository(db *gorm.DB) RelationStore {
	return &relationRepository{db: db, followRepo: NewFollowRepository(db), fanRepo: NewFanRepository(db)}
}

func (r *relationRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.followRepo.WithTx(tx).Create(ctx, followerID, followeeID); err != nil {
			return err
		}
		if err := r.fanRepo.WithTx(tx).Create(ctx, followeeID, followerID); err != nil {
			return fmt.Errorf("write fan row: %w", err)
		}
		return nil
	})
}

func (r *relationRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.followRepo.WithTx(tx).Delete(ctx, followerID, followeeID); err != nil {
			return err
		}
		if err := r.fanRepo.WithTx(tx).Delete(ctx, followeeID, followerID); err != nil {
			return fmt.Errorf("delete fan row: %w", err)
		}
		return nil
	})
}

func (r *relationRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.followRepo.Exists(ctx, followerID, followeeID)
}

func (r *relationRepository) Following(ctx context.Context, userID string) ([]string, error) {
	items, err := r.followRepo.ListFollowings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(f *model.Follow, _ int) string { return f.FolloweeID }), nil
}

func (r *relationRepository) Followers(ctx context.Context, userID string) ([]string, error) {
	items, err := r.fanRepo.ListFans(ctx, userID)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(f *model.Fan, _ int) string { return f.FanID }), nil
}

type pairRow struct {
	FollowerID string
	FolloweeID string
}

// Asymmetries 先找缺失的 fan 行，再找多余的 fan 行
func (r *relationRepository) Asymmetries(ctx context.Context, limit int) ([]Asymmetry, error) {
	if limit <= 0 {
		limit = 500
	}
	var missing []pairRow
	if err := r.db.WithContext(ctx).
		Table("follows").
		Select("follows.follower_id AS follower_id, follows.followee_id AS followee_id").
		Joins("LEFT JOIN fans ON fans.user_id = follows.followee_id AND fans.fan_id = follows.follower_id").
		Where("fans.id IS NULL").
		Limit(limit).
		Scan(&missing).Error; err != nil {
		return nil, fmt.Errorf("scan missing fans: %w", err)
	}
	res := lo.Map(missing, func(p pairRow, _ int) Asymmetry {
		return Asymmetry{FollowerID: p.FollowerID, FolloweeID: p.FolloweeID, MissingFan: true}
	})
	if len(res) >= limit {
		return res, nil
	}

	var orphans []pairRow
	if err := r.db.WithContext(ctx).
		Table("fans").
		Select("fans.fan_id AS follower_id, fans.user_id AS followee_id").
		Joins("LEFT JOIN follows ON follows.follower_id = fans.fan_id AND follows.followee_id = fans.user_id").
		Where("follows.id IS NULL").
		Limit(limit - len(res)).
		Scan(&orphans).Error; err != nil {
		return nil, fmt.Errorf("scan orphan fans: %w", err)
	}
	for _, p := range orphans {
		res = append(res, Asymmetry{FollowerID: p.FollowerID, FolloweeID: p.FolloweeID})
	}
	return res, nil
}

func (r *relationRepository) Repair(ctx context.Context, a Asymmetry) error {
	if a.MissingFan {
		return r.fanRepo.Create(ctx, a.FolloweeID, a.FollowerID)
	}
	return r.fanRepo.Delete(ctx, a.FolloweeID, a.FollowerID)
}
