package service

import (
	"Cinebase/internal/api/config"
	"Cinebase/internal/api/dto"
	"Cinebase/internal/model"
	"Cinebase/internal/repository"
	"context"
	log "log/slog"
	"sort"
)

type RecommendService interface {
	// Recommend 返回个性化推荐的影片 ID 列表。
	// 先按用户兴趣分对共享分类的候选排序，排完不足 limit 再用热度兜底补齐
	Recommend(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)
	// RecommendMovies 推荐列表的展示层封装，保持 Recommend 的排序
	RecommendMovies(ctx context.Context, userID uint64, limit, offset int) ([]*dto.RecommendedMovieDTO, error)
}

type recommendServiceImpl struct {
	interestRepo repository.InterestRepo
	movieRepo    repository.MovieRepo
	categoryRepo repository.CategoryRepo
	actionRepo   repository.MovieActionRepo
	cfg          *config.RecommenderConfig
}

func NewRecommendService(
	interestRepo repository.InterestRepo,
	movieRepo repository.MovieRepo,
	categoryRepo repository.CategoryRepo,
	actionRepo repository.MovieActionRepo,
	cfg *config.RecommenderConfig,
) RecommendService {
	return &recommendServiceImpl{
		interestRepo: interestRepo,
		movieRepo:    movieRepo,
		categoryRepo: categoryRepo,
		actionRepo:   actionRepo,
		cfg:          cfg,
	}
}

func (s *recommendServiceImpl) Recommend(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	if userID == 0 || limit <= 0 || offset < 0 {
		return nil, ErrParamInvalid
	}

	seen, err := s.actionRepo.GetViewedMovieIDs(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load viewed movies", "user_id", userID, "error", err)
		return nil, UnExpectedError
	}

	ranked, err := s.rankByInterest(ctx, userID, seen)
	if err != nil {
		// 兴趣档案读不出来就降级为纯热度推荐，个性化是尽力而为
		log.WarnContext(ctx, "interest ranking degraded to popularity fallback", "user_id", userID, "error", err)
		ranked = nil
	}

	page := paginateIDs(ranked, limit, offset)
	if len(page) >= limit {
		return page, nil
	}

	// 兜底排除已看过的和整个已排序集合，不只是当前分页
	exclude := make([]uint64, 0, len(seen)+len(ranked))
	exclude = append(exclude, seen...)
	exclude = append(exclude, ranked...)
	// 排序集合耗尽后分页要继续在热度列表上推进，跳过前面页已经给出的兜底项
	fallbackOffset := offset - len(ranked)
	if fallbackOffset < 0 {
		fallbackOffset = 0
	}
	fallback, err := s.movieRepo.GetPopular(ctx, limit-len(page), fallbackOffset, exclude)
	if err != nil {
		log.ErrorContext(ctx, "failed to load popularity fallback", "user_id", userID, "error", err)
		if len(page) > 0 {
			return page, nil
		}
		return nil, UnExpectedError
	}
	for _, m := range fallback {
		page = append(page, m.ID)
	}
	return page, nil
}

func (s *recommendServiceImpl) RecommendMovies(ctx context.Context, userID uint64, limit, offset int) ([]*dto.RecommendedMovieDTO, error) {
	ids, err := s.Recommend(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	movies, err := s.movieRepo.GetMovieByIDs(ctx, ids)
	if err != nil {
		log.ErrorContext(ctx, "failed to load recommended movies", "user_id", userID, "error", err)
		return nil, UnExpectedError
	}
	byID := make(map[uint64]*model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	result := make([]*dto.RecommendedMovieDTO, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		result = append(result, &dto.RecommendedMovieDTO{
			ID:         m.ID,
			Title:      m.Title,
			PosterURL:  m.PosterURL,
			Year:       m.Year,
			ViewsCount: m.ViewsCount,
			LikesCount: m.LikesCount,
		})
	}
	return result, nil
}

// rankByInterest 推荐主路径：共享分类候选按用户兴趣分的均值排序，
// 低于阈值的候选被过滤掉
func (s *recommendServiceImpl) rankByInterest(ctx context.Context, userID uint64, seen []uint64) ([]uint64, error) {
	interests, err := s.interestRepo.ListPositive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return nil, nil
	}

	scoreByCategory := make(map[uint64]float64, len(interests))
	interestCategoryIDs := make([]uint64, 0, len(interests))
	for _, it := range interests {
		scoreByCategory[it.CategoryID] = it.Score
		interestCategoryIDs = append(interestCategoryIDs, it.CategoryID)
	}

	candidates, err := s.movieRepo.GetPlayableByCategories(ctx, interestCategoryIDs, seen)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	candidateIDs := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		candidateIDs = append(candidateIDs, c.ID)
	}
	categoriesByMovie, err := s.categoryRepo.GetCategoryIDsByMovies(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}

	type rankedMovie struct {
		id        uint64
		score     float64
		createdAt int64
	}
	ranked := make([]rankedMovie, 0, len(candidates))
	for _, c := range candidates {
		var sum float64
		shared := 0
		for _, cid := range categoriesByMovie[c.ID] {
			if score, ok := scoreByCategory[cid]; ok {
				sum += score
				shared++
			}
		}
		if shared == 0 {
			continue
		}
		mean := sum / float64(shared)
		if mean < s.cfg.RecommendationThreshold {
			continue
		}
		ranked = append(ranked, rankedMovie{id: c.ID, score: mean, createdAt: c.CreatedAt.UnixNano()})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].createdAt != ranked[j].createdAt {
			return ranked[i].createdAt > ranked[j].createdAt
		}
		return ranked[i].id < ranked[j].id
	})

	ids := make([]uint64, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.id)
	}
	return ids, nil
}

func paginateIDs(ids []uint64, limit, offset int) []uint64 {
	if offset >= len(ids) {
		return []uint64{}
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	page := make([]uint64, end-offset)
	copy(page, ids[offset:end])
	return page
}
