package model

import (
	"time"

	"github.com/samber/lo"
)

// Post 帖子；UserName 为创建时的作者名快照，不随用户改名同步
type Post struct {
	ID         string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Image      string    `json:"image" gorm:"type:varchar(255)"`
	Title      string    `json:"title" gorm:"type:varchar(255)"`
	TitleLower string    `json:"-" gorm:"type:varchar(255);index:idx_post_title_lower"` // 仓储层按 strings.ToLower 写入
	Likes      []string  `json:"likes" gorm:"-"`
	Comments   []Comment `json:"comments" gorm:"foreignKey:PostID"`
	UserID     string    `json:"userId" gorm:"type:varchar(36);index:idx_post_user;not null"`
	UserName   string    `json:"userName" gorm:"type:varchar(100)"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index:idx_post_created"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// LikedBy 用户是否已点赞
func (p *Post) LikedBy(userID string) bool {
	return lo.Contains(p.Likes, userID)
}
