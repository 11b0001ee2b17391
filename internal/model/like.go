package model

import "time"

// PostLike 点赞（同一用户对同一帖子最多一条）
type PostLike struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_like_post;uniqueIndex:ux_like_pair;not null"`
	UserID    string `gorm:"type:varchar(36);uniqueIndex:ux_like_pair;not null"`
	// ux_like_pair = (post_id, user_id)
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }
