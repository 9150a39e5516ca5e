package repository

import (
	"Cinebase/internal/model"
	"context"

	"gorm.io/gorm"
)

type MovieActionRepo interface {
	CreateLike(ctx context.Context, like *model.MovieLike) error
	DeleteLike(ctx context.Context, userID, movieID uint64) (bool, error)
	GetLikedMovieIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	CreateView(ctx context.Context, view *model.MovieView) error
	GetViewedMovieIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

type MovieActionRepoImpl struct {
	db *gorm.DB
}

func NewMovieActionRepo(db *gorm.DB) MovieActionRepo {
	return &MovieActionRepoImpl{db}
}

func (s *MovieActionRepoImpl) CreateLike(ctx context.Context, like *model.MovieLike) error {
	return s.db.WithContext(ctx).Create(like).Error
}

// DeleteLike 返回是否真的删除了记录，取消不存在的点赞不应回拨计数器
func (s *MovieActionRepoImpl) DeleteLike(ctx context.Context, userID, movieID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.MovieLike{})
	return res.RowsAffected > 0, res.Error
}

// GetLikedMovieIDs 按点赞时间倒序分页
func (s *MovieActionRepoImpl) GetLikedMovieIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var movieIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.MovieLike{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("movie_id", &movieIDs).Error
	return movieIDs, err
}

func (s *MovieActionRepoImpl) CreateView(ctx context.Context, view *model.MovieView) error {
	return s.db.WithContext(ctx).Create(view).Error
}

// GetViewedMovieIDs 用户看过的影片全集，推荐流用于排除已读
func (s *MovieActionRepoImpl) GetViewedMovieIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var movieIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.MovieView{}).
		Distinct("movie_id").
		Where("user_id = ?", userID).
		Pluck("movie_id", &movieIDs).Error
	return movieIDs, err
}
