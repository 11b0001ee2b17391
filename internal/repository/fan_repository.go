package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/socialgram/internal/model"
)

// FanRepository followers 集合（fans 表）；写入与删除均幂等，便于巡检重放
type FanRepository interface {
	Create(ctx context.Context, userID, fanID string) error
	Delete(ctx context.Context, userID, fanID string) error
	ListFans(ctx context.Context, userID string) ([]*model.Fan, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]*model.Fan, error)
	WithTx(tx *gorm.DB) FanRepository
}

type fanRepository struct{ db *gorm.DB }

func NewFanRepository(db *gorm.DB) FanRepository { return &fanRepository{db: db} }

func (r *fanRepository) WithTx(tx *gorm.DB) FanRepository { return &fanRepository{db: tx} }

func (r *fanRepository) Create(ctx context.Context, userID, fanID string) error {
	f := &model.Fan{ID: uuid.New().String(), UserID: userID, FanID: fanID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *fanRepository) Delete(ctx context.Context, userID, fanID string) error {
	return r.db.WithContext(ctx).Where("user_id = ? AND fan_id = ?", userID, fanID).Delete(&model.Fan{}).Error
}

func (r *fanRepository) ListFans(ctx context.Context, userID string) ([]*model.Fan, error) {
	var res []*model.Fan
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&res).Error
	return res, err
}

func (r *fanRepository) ListByUsers(ctx context.Context, userIDs []string) ([]*model.Fan, error) {
	var res []*model.Fan
	if len(userIDs) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("created_at").Find(&res).Error
	return res, err
}
