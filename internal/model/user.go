package model

import "time"

// User 用户档案；Followers/Following 由仓储从两张邻接表（或文档数组）回填
type User struct {
	ID           string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex:ux_users_email;not null"`
	Password     string    `json:"-" gorm:"type:varchar(100);not null"`
	ProfileImage string    `json:"profileImage,omitempty" gorm:"type:varchar(255)"`
	Bio          string    `json:"bio,omitempty" gorm:"type:text"`
	Followers    []string  `json:"followers" gorm:"-"`
	Following    []string  `json:"following" gorm:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// ProfileChanges 资料更新；空串与缺省等价，表示保持不变
type ProfileChanges struct {
	Name         string
	PasswordHash string
	Bio          string
	ProfileImage string
}

// IsEmpty 没有任何需要写入的字段
func (p ProfileChanges) IsEmpty() bool {
	return p.Name == "" && p.PasswordHash == "" && p.Bio == "" && p.ProfileImage == ""
}

// Apply 将非空字段写到 u 上
func (p ProfileChanges) Apply(u *User) {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.PasswordHash != "" {
		u.Password = p.PasswordHash
	}
	if p.Bio != "" {
		u.Bio = p.Bio
	}
	if p.ProfileImage != "" {
		u.ProfileImage = p.ProfileImage
	}
}
