package model

import "time"

// PostSave 收藏
type PostSave struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_save_user;uniqueIndex:ux_save_pair;not null"`
	PostID    string `gorm:"type:varchar(36);index:idx_save_post;uniqueIndex:ux_save_pair;not null"`
	CreatedAt time.Time
}

func (PostSave) TableName() string { return "post_saves" }
