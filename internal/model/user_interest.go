package model

import (
	"time"
)

// UserInterest 用户对单个分类的亲和度得分
// 不变量：每个 (user_id, category_id) 至多一行，且 0 < score <= 配置上限；
// 得分归零或转负时直接删除该行，绝不存储非正分
type UserInterest struct {
	UserID     uint64    `gorm:"primaryKey" json:"user_id"`
	CategoryID uint64    `gorm:"primaryKey;index:idx_user_interests_category_id" json:"category_id"`
	Score      float64   `gorm:"not null" json:"score"`
	UpdatedAt  time.Time `gorm:"not null;index:idx_user_interests_updated_at" json:"updated_at"`
}

func (UserInterest) TableName() string {
	return "user_interests"
}
