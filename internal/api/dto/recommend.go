package dto

// RecommendedMovieDTO 推荐结果里的影片
type RecommendedMovieDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	PosterURL  string `json:"poster_url"`
	Year       int    `json:"year"`
	ViewsCount int64  `json:"views_count"`
	LikesCount int64  `json:"likes_count"`
}

// SimilarMovieDTO 相似影片及其重合度得分
type SimilarMovieDTO struct {
	RecommendedMovieDTO
	Score float64 `json:"score"`
}

// InterestDTO 用户的单个分类兴趣分
type InterestDTO struct {
	CategoryID   uint64  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Score        float64 `json:"score"`
}
