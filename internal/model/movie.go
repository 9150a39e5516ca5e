package model

import (
	"time"
)

type Movie struct {
	ID          uint64    `gorm:"primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Year        int       `gorm:"not null;default:0" json:"year"`
	PosterURL   string    `gorm:"type:varchar(512)" json:"poster_url"`
	Status      int8      `gorm:"not null;default:1" json:"status"` // 1:已上架, 2:已下架
	ViewsCount  int64     `gorm:"not null;default:0" json:"views_count"`
	LikesCount  int64     `gorm:"not null;default:0" json:"likes_count"`
	IsDeleted   bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// 关联关系
	Videos []MovieVideo `gorm:"foreignKey:MovieID;references:ID"`
}

func (Movie) TableName() string {
	return "movies"
}

// PopularityScore 热度得分：播放与点赞的加权和，用于兜底排序
func (m *Movie) PopularityScore() float64 {
	return 0.7*float64(m.ViewsCount) + 0.3*float64(m.LikesCount)
}
