package model

import (
	"time"
)

// MovieVideo 影片的可播放分片，一部影片至少有一条记录才视为可播放
type MovieVideo struct {
	ID        uint64    `gorm:"primaryKey"`
	MovieID   uint64    `gorm:"not null;index:idx_movie_videos_movie_id" json:"movieId"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	FileID    string    `gorm:"type:varchar(512);not null" json:"fileId"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func (MovieVideo) TableName() string {
	return "movie_videos"
}
