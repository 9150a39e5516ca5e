package service

import (
	"Cinebase/internal/model"
	"Cinebase/internal/pkg/util"
	"Cinebase/internal/repository"
	"context"
	log "log/slog"
	"sort"
)

// SimilarityCandidate 相似影片打分结果
type SimilarityCandidate struct {
	Movie *model.Movie
	Score float64
}

type SimilarityService interface {
	// SimilarMovies 按分类重合度找相似影片：
	// score = 候选与源影片共享的分类数 / 源影片的分类数。
	// 只考虑可播放的候选，排序为 score 降序、观看数降序、ID 升序
	SimilarMovies(ctx context.Context, movieID uint64, limit int) ([]SimilarityCandidate, error)
}

type similarityServiceImpl struct {
	movieRepo    repository.MovieRepo
	categoryRepo repository.CategoryRepo
}

func NewSimilarityService(movieRepo repository.MovieRepo, categoryRepo repository.CategoryRepo) SimilarityService {
	return &similarityServiceImpl{
		movieRepo:    movieRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *similarityServiceImpl) SimilarMovies(ctx context.Context, movieID uint64, limit int) ([]SimilarityCandidate, error) {
	if movieID == 0 || limit <= 0 {
		return nil, ErrParamInvalid
	}

	movie, err := s.movieRepo.GetMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load source movie", "movie_id", movieID, "error", err)
		return nil, UnExpectedError
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	sourceIDs, err := s.categoryRepo.GetCategoryIDsByMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load source categories", "movie_id", movieID, "error", err)
		return nil, UnExpectedError
	}
	if len(sourceIDs) == 0 {
		// 没有分类的影片谈不上相似
		return []SimilarityCandidate{}, nil
	}
	sourceSet := util.ToIDSet(sourceIDs)

	candidates, err := s.movieRepo.GetPlayableByCategories(ctx, sourceIDs, []uint64{movieID})
	if err != nil {
		log.ErrorContext(ctx, "failed to load similarity candidates", "movie_id", movieID, "error", err)
		return nil, UnExpectedError
	}
	if len(candidates) == 0 {
		return []SimilarityCandidate{}, nil
	}

	candidateIDs := make([]uint64, 0, len(candidates))
	for _, c := range candidates {
		candidateIDs = append(candidateIDs, c.ID)
	}
	categoriesByMovie, err := s.categoryRepo.GetCategoryIDsByMovies(ctx, candidateIDs)
	if err != nil {
		log.ErrorContext(ctx, "failed to load candidate categories", "error", err)
		return nil, UnExpectedError
	}

	scored := make([]SimilarityCandidate, 0, len(candidates))
	for _, c := range candidates {
		shared := 0
		for _, cid := range categoriesByMovie[c.ID] {
			if _, ok := sourceSet[cid]; ok {
				shared++
			}
		}
		if shared == 0 {
			continue
		}
		scored = append(scored, SimilarityCandidate{
			Movie: c,
			Score: float64(shared) / float64(len(sourceIDs)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Movie.ViewsCount != scored[j].Movie.ViewsCount {
			return scored[i].Movie.ViewsCount > scored[j].Movie.ViewsCount
		}
		return scored[i].Movie.ID < scored[j].Movie.ID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
