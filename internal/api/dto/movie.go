package dto

// MovieDTO 影片详情
type MovieDTO struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Year        int            `json:"year"`
	PosterURL   string         `json:"poster_url"`
	Status      int8           `json:"status"`
	ViewsCount  int64          `json:"views_count"`
	LikesCount  int64          `json:"likes_count"`
	Categories  []*CategoryDTO `json:"categories"`
	Videos      []*VideoDTO    `json:"videos,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// MovieBaseDTO 影片 - 新增或修改
type MovieBaseDTO struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title" binding:"required" validate:"min=1,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Year        int      `json:"year" validate:"omitempty,min=1888,max=2100"`
	PosterURL   string   `json:"poster_url" validate:"max=512"`
	Categories  []string `json:"categories" validate:"max=10,dive,min=1,max=50"`
}

// MovieStatusDTO 上架/下架
type MovieStatusDTO struct {
	Status int8 `json:"status" binding:"required" validate:"oneof=1 2"`
}

// PosterImportDTO 从外部 URL 拉取海报
type PosterImportDTO struct {
	URL string `json:"url" binding:"required" validate:"url,max=512"`
}

// VideoDTO 影片分片
type VideoDTO struct {
	ID       uint64 `json:"id"`
	MovieID  uint64 `json:"movie_id"`
	Title    string `json:"title"`
	FileID   string `json:"file_id"`
	Position int    `json:"position"`
}

// VideoBaseDTO 分片 - 新增
type VideoBaseDTO struct {
	Title    string `json:"title" validate:"max=255"`
	FileID   string `json:"file_id" binding:"required" validate:"min=1,max=512"`
	Position int    `json:"position" validate:"min=0"`
}
