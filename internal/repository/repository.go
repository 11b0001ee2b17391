package repository

import (
	"context"
	"errors"

	"github.com/d60-Lab/socialgram/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository 用户目录
type UserRepository interface {
	// Create 邮箱已存在时返回 ErrDuplicate
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	// UpdateProfile 只写入非空字段
	UpdateProfile(ctx context.Context, id string, changes model.ProfileChanges) error
}

// RelationRepository 关注关系：following 与 followers 两个独立集合
type RelationRepository interface {
	// Follow 写 follower.following 与 followee.followers；已关注返回 ErrDuplicate
	Follow(ctx context.Context, followerID, followeeID string) error
	// Unfollow 关系不存在返回 ErrNotFound
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Following(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]string, error)
}

// Asymmetry 单边关系：following 一侧与 followers 一侧不一致
type Asymmetry struct {
	FollowerID string
	FolloweeID string
	// MissingFan 为 true 表示 following 存在而 followers 缺失；否则 followers 多出一条
	MissingFan bool
}

// RelationAuditor 供一致性巡检使用；以 following 一侧为准
type RelationAuditor interface {
	Asymmetries(ctx context.Context, limit int) ([]Asymmetry, error)
	Repair(ctx context.Context, a Asymmetry) error
}

// PostRepository 帖子与其互动子记录
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	UpdateTitle(ctx context.Context, id, title string) error
	// List/ListByUser/SearchTitle/ListSaved 均按帖子创建时间倒序
	List(ctx context.Context) ([]*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	SearchTitle(ctx context.Context, query string) ([]*model.Post, error)

	// AddLike 已点赞返回 ErrDuplicate；RemoveLike 未点赞返回 ErrNotFound
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, postID string, comment *model.Comment) error

	AddSave(ctx context.Context, postID, userID string) error
	RemoveSave(ctx context.Context, postID, userID string) error
	IsSaved(ctx context.Context, postID, userID string) (bool, error)
	// ListSaved 排序依据是帖子的创建时间，而非收藏时间
	ListSaved(ctx context.Context, userID string) ([]*model.Post, error)
}

// Store 一个存储后端提供的全部仓储
type Store struct {
	Users     UserRepository
	Relations RelationRepository
	Auditor   RelationAuditor
	Posts     PostRepository
	// Close 释放底层连接
	Close func() error
}
