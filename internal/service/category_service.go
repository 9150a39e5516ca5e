package service

import (
	"Cinebase/internal/api/dto"
	"Cinebase/internal/pkg/consts"
	"Cinebase/internal/pkg/redis"
	"Cinebase/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const categoryCacheExpiration = 10 * time.Minute

type CategoryService interface {
	// ListCategories 分类列表走 Redis 缓存，变更时失效
	ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
	CreateCategory(ctx context.Context, req *dto.CategoryBaseDTO) (uint64, error)
	DeleteCategory(ctx context.Context, categoryID uint64) error
}

type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	cached, err := redis.GetValue(ctx, consts.CategoryListKey)
	if err != nil {
		log.WarnContext(ctx, "category cache unavailable", "error", err)
	} else if cached != "" {
		var result []*dto.CategoryDTO
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
		log.WarnContext(ctx, "broken category cache, rebuilding", "error", err)
	}

	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to list categories", "error", err)
		return nil, UnExpectedError
	}

	result := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		item := &dto.CategoryDTO{ID: c.ID, Name: c.Name}
		if c.Description != nil {
			item.Description = *c.Description
		}
		result = append(result, item)
	}

	if data, err := json.Marshal(result); err == nil {
		if err := redis.SetWithExpiration(ctx, consts.CategoryListKey, data, categoryCacheExpiration); err != nil {
			log.WarnContext(ctx, "failed to cache categories", "error", err)
		}
	}
	return result, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryBaseDTO) (uint64, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, ErrParamInvalid
	}

	category, err := s.categoryRepo.GetOrCreateCategory(ctx, name, req.Description)
	if err != nil {
		log.ErrorContext(ctx, "failed to create category", "name", name, "error", err)
		return 0, UnExpectedError
	}

	s.invalidateCache(ctx)
	return category.ID, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, categoryID uint64) error {
	if categoryID == 0 {
		return ErrParamInvalid
	}
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load category", "category_id", categoryID, "error", err)
		return UnExpectedError
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		log.ErrorContext(ctx, "failed to delete category", "category_id", categoryID, "error", err)
		return UnExpectedError
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *categoryServiceImpl) invalidateCache(ctx context.Context) {
	if err := redis.DeleteKey(ctx, consts.CategoryListKey); err != nil {
		log.WarnContext(ctx, "failed to invalidate category cache", "error", err)
	}
}
