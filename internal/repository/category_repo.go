package repository

import (
	"Cinebase/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepo interface {
	GetOrCreateCategory(ctx context.Context, name string, description string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryByID(ctx context.Context, categoryID uint64) (*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint64) error

	ReplaceMovieCategories(ctx context.Context, movieID uint64, categoryIDs []uint64) error
	GetCategoryIDsByMovie(ctx context.Context, movieID uint64) ([]uint64, error)
	GetCategoryIDsByMovies(ctx context.Context, movieIDs []uint64) (map[uint64][]uint64, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepo {
	return &categoryRepoImpl{
		db: db,
	}
}

func (s *categoryRepoImpl) GetOrCreateCategory(ctx context.Context, name string, description string) (*model.Category, error) {
	category := model.Category{
		Name:        name,
		Description: &description,
		CreatedAt:   time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error
	if err != nil {
		return nil, err
	}
	// 如果记录已存在，查询获取完整数据
	var existing model.Category
	err = s.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *categoryRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *categoryRepoImpl) GetCategoryByID(ctx context.Context, categoryID uint64) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// DeleteCategory 连同影片关联边和该分类下的兴趣分一起删除
func (s *categoryRepoImpl) DeleteCategory(ctx context.Context, categoryID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).Delete(&model.MovieCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&model.UserInterest{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", categoryID).Delete(&model.Category{}).Error
	})
}

// ReplaceMovieCategories 全量替换影片的分类边，管理端保存影片时调用
func (s *categoryRepoImpl) ReplaceMovieCategories(ctx context.Context, movieID uint64, categoryIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", movieID).Delete(&model.MovieCategory{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		edges := make([]*model.MovieCategory, 0, len(categoryIDs))
		for _, cid := range categoryIDs {
			edges = append(edges, &model.MovieCategory{MovieID: movieID, CategoryID: cid})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error
	})
}

func (s *categoryRepoImpl) GetCategoryIDsByMovie(ctx context.Context, movieID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.MovieCategory{}).
		Where("movie_id = ?", movieID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// GetCategoryIDsByMovies 批量查询影片到分类集合的映射
func (s *categoryRepoImpl) GetCategoryIDsByMovies(ctx context.Context, movieIDs []uint64) (map[uint64][]uint64, error) {
	result := make(map[uint64][]uint64, len(movieIDs))
	if len(movieIDs) == 0 {
		return result, nil
	}
	var edges []*model.MovieCategory
	err := s.db.WithContext(ctx).
		Where("movie_id IN ?", movieIDs).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		result[e.MovieID] = append(result[e.MovieID], e.CategoryID)
	}
	return result, nil
}
