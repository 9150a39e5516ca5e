package es

import "time"

// MovieES 写入 ES 的影片文档
type MovieES struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	Status      int8      `json:"status"`
	ViewsCount  int64     `json:"views_count"`
	LikesCount  int64     `json:"likes_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
