package dto

// RegisterDTO 用户注册
type RegisterDTO struct {
	Username string `json:"username" binding:"required" validate:"min=3,max=50"`
	Password string `json:"password" binding:"required" validate:"min=6,max=64"`
}

// LoginDTO 用户登录
type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenDTO 登录签发的令牌
type TokenDTO struct {
	Token string `json:"token"`
}

// LikedMovieDTO 用户点赞过的影片条目
type LikedMovieDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	PosterURL  string `json:"poster_url"`
	Year       int    `json:"year"`
	ViewsCount int64  `json:"views_count"`
	LikesCount int64  `json:"likes_count"`
}

// UserDTO 用户信息
type UserDTO struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Status       int8   `json:"status"`
	LastActiveAt string `json:"last_active_at"`
}
