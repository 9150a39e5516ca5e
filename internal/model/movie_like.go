package model

import (
	"time"
)

type MovieLike struct {
	UserID    uint64    `gorm:"primaryKey" json:"userId"`
	MovieID   uint64    `gorm:"primaryKey;index:idx_movie_likes_movie_id" json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (MovieLike) TableName() string {
	return "movie_likes"
}
