package model

type MovieCategory struct {
	MovieID    uint64 `gorm:"primaryKey" json:"movieId"`
	CategoryID uint64 `gorm:"primaryKey;index:idx_movie_categories_category_id" json:"categoryId"`
}

func (MovieCategory) TableName() string {
	return "movie_categories"
}
