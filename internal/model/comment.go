package model

import "time"

// Comment 评论，只追加；UserName/UserImage 为评论时快照
type Comment struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"-" gorm:"type:varchar(36);index:idx_comment_post;not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null"`
	UserName  string    `json:"userName" gorm:"type:varchar(100)"`
	UserImage string    `json:"userImage,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }
