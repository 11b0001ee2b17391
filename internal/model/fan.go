package model

import "time"

// Fan 粉丝关系（B 的粉丝是 A），冗余自 Follow，对应用户的 followers 集合
type Fan struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_fan_user;uniqueIndex:idx_fan_pair;not null"`
	FanID     string `gorm:"type:varchar(36);index:idx_fan_fan;uniqueIndex:idx_fan_pair;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
