package repository

import (
	"Cinebase/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

const popularityExpr = "(0.7 * views_count + 0.3 * likes_count)"

type MovieRepo interface {
	CreateMovie(ctx context.Context, movie *model.Movie) error
	UpdateMovie(ctx context.Context, movie *model.Movie) error
	UpdateMovieStatus(ctx context.Context, movieID uint64, status int8) error
	DeleteMovie(ctx context.Context, movieID uint64) error
	GetMovie(ctx context.Context, movieID uint64) (*model.Movie, error)
	GetMovieByIDs(ctx context.Context, movieIDs []uint64) ([]*model.Movie, error)
	ListMovies(ctx context.Context, limit, offset int) ([]*model.Movie, error)
	SearchByTitle(ctx context.Context, keyword string, limit, offset int) ([]*model.Movie, error)

	// IsPlayable 影片至少有一条视频分片才可播放
	IsPlayable(ctx context.Context, movieID uint64) (bool, error)
	// GetPlayableByCategories 取与给定分类集合有交集的可播放影片
	GetPlayableByCategories(ctx context.Context, categoryIDs []uint64, excludeIDs []uint64) ([]*model.Movie, error)
	// GetPopular 按热度 (0.7·views + 0.3·likes) 降序取可播放影片
	GetPopular(ctx context.Context, limit, offset int, excludeIDs []uint64) ([]*model.Movie, error)

	IncrViewsCount(ctx context.Context, movieID uint64) error
	IncrLikesCount(ctx context.Context, movieID uint64, delta int) error

	CreateVideo(ctx context.Context, video *model.MovieVideo) error
	DeleteVideo(ctx context.Context, videoID uint64) error
	GetVideosByMovie(ctx context.Context, movieID uint64) ([]*model.MovieVideo, error)
}

type movieRepoImpl struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepo {
	return &movieRepoImpl{db: db}
}

func (s *movieRepoImpl) CreateMovie(ctx context.Context, movie *model.Movie) error {
	return s.db.WithContext(ctx).Create(movie).Error
}

func (s *movieRepoImpl) UpdateMovie(ctx context.Context, movie *model.Movie) error {
	return s.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ? AND is_deleted = ?", movie.ID, false).
		Updates(map[string]interface{}{
			"title":       movie.Title,
			"description": movie.Description,
			"year":        movie.Year,
			"poster_url":  movie.PosterURL,
		}).Error
}

func (s *movieRepoImpl) UpdateMovieStatus(ctx context.Context, movieID uint64, status int8) error {
	return s.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", movieID).
		Update("status", status).Error
}

func (s *movieRepoImpl) DeleteMovie(ctx context.Context, movieID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ? AND is_deleted = ?", movieID, false).
		Update("is_deleted", true).Error
}

func (s *movieRepoImpl) GetMovie(ctx context.Context, movieID uint64) (*model.Movie, error) {
	var movie model.Movie
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", movieID, false).
		First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

func (s *movieRepoImpl) GetMovieByIDs(ctx context.Context, movieIDs []uint64) ([]*model.Movie, error) {
	movies := make([]*model.Movie, 0, len(movieIDs))
	if len(movieIDs) == 0 {
		return movies, nil
	}
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_deleted = ?", movieIDs, false).
		Find(&movies).Error
	return movies, err
}

func (s *movieRepoImpl) ListMovies(ctx context.Context, limit, offset int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := s.db.WithContext(ctx).
		Where("is_deleted = ? AND status = ?", false, 1).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&movies).Error
	return movies, err
}

// SearchByTitle ES 不可用时的数据库兜底搜索
func (s *movieRepoImpl) SearchByTitle(ctx context.Context, keyword string, limit, offset int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := s.db.WithContext(ctx).
		Where("is_deleted = ? AND status = ?", false, 1).
		Where("title LIKE ?", "%"+keyword+"%").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&movies).Error
	return movies, err
}

func (s *movieRepoImpl) IsPlayable(ctx context.Context, movieID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.MovieVideo{}).
		Where("movie_id = ?", movieID).
		Count(&count).Error
	return count > 0, err
}

func (s *movieRepoImpl) GetPlayableByCategories(ctx context.Context, categoryIDs []uint64, excludeIDs []uint64) ([]*model.Movie, error) {
	movies := make([]*model.Movie, 0)
	if len(categoryIDs) == 0 {
		return movies, nil
	}
	query := s.db.WithContext(ctx).Model(&model.Movie{}).
		Distinct("movies.*").
		Joins("JOIN movie_categories ON movie_categories.movie_id = movies.id").
		Where("movie_categories.category_id IN ?", categoryIDs).
		Where("movies.is_deleted = ? AND movies.status = ?", false, 1).
		Where("EXISTS (SELECT 1 FROM movie_videos WHERE movie_videos.movie_id = movies.id)")
	if len(excludeIDs) > 0 {
		query = query.Where("movies.id NOT IN ?", excludeIDs)
	}
	err := query.Find(&movies).Error
	return movies, err
}

func (s *movieRepoImpl) GetPopular(ctx context.Context, limit, offset int, excludeIDs []uint64) ([]*model.Movie, error) {
	movies := make([]*model.Movie, 0, limit)
	query := s.db.WithContext(ctx).Model(&model.Movie{}).
		Where("is_deleted = ? AND status = ?", false, 1).
		Where("EXISTS (SELECT 1 FROM movie_videos WHERE movie_videos.movie_id = movies.id)")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.
		Order(popularityExpr + " DESC").
		Order("created_at DESC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	return movies, err
}

// IncrViewsCount 计数器自增放在 SQL 表达式里，避免读改写竞态
func (s *movieRepoImpl) IncrViewsCount(ctx context.Context, movieID uint64) error {
	return s.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", movieID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// IncrLikesCount delta 为 ±1，下限兜底到 0
func (s *movieRepoImpl) IncrLikesCount(ctx context.Context, movieID uint64, delta int) error {
	if delta >= 0 {
		return s.db.WithContext(ctx).Model(&model.Movie{}).
			Where("id = ?", movieID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
	}
	return s.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ? AND likes_count > 0", movieID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

func (s *movieRepoImpl) CreateVideo(ctx context.Context, video *model.MovieVideo) error {
	return s.db.WithContext(ctx).Create(video).Error
}

func (s *movieRepoImpl) DeleteVideo(ctx context.Context, videoID uint64) error {
	return s.db.WithContext(ctx).Where("id = ?", videoID).Delete(&model.MovieVideo{}).Error
}

func (s *movieRepoImpl) GetVideosByMovie(ctx context.Context, movieID uint64) ([]*model.MovieVideo, error) {
	var videos []*model.MovieVideo
	err := s.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("position ASC").
		Find(&videos).Error
	return videos, err
}
