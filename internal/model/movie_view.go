package model

import (
	"time"
)

type MovieView struct {
	ID       uint64    `gorm:"primaryKey"`
	MovieID  uint64    `gorm:"not null;index:idx_movie_views_movie_id" json:"movieId"`
	UserID   uint64    `gorm:"not null;index:idx_movie_views_user_id" json:"userId"`
	ViewedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"viewedAt"`
}

func (MovieView) TableName() string {
	return "movie_views"
}
