package repository

import (
	"gorm.io/gorm"

	"github.com/d60-Lab/socialgram/internal/model"
	"github.com/d60-Lab/socialgram/pkg/database"
)

// AutoMigrate 建表与索引
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Comment{},
		&model.PostLike{},
		&model.PostSave{},
		&model.Follow{},
		&model.Fan{},
	)
}

// NewGormStore 组装关系型后端的仓储
func NewGormStore(db *gorm.DB) *Store {
	rel := NewRelationRepository(db)
	return &Store{
		Users:     NewUserRepository(db),
		Relations: rel,
		Auditor:   rel,
		Posts:     NewPostRepository(db),
		Close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// translate 将 gorm/驱动错误归一为仓储错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFoundErr(err):
		return ErrNotFound
	case database.IsDuplicateErr(err):
		return ErrDuplicate
	default:
		return err
	}
}
