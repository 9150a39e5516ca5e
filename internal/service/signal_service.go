package service

import (
	"Cinebase/internal/api/config"
	"Cinebase/internal/model"
	"Cinebase/internal/pkg/consts"
	"Cinebase/internal/pkg/redis"
	"Cinebase/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"
)

type SignalService interface {
	// Record 处理一条用户行为信号：维护点赞/观看副作用、刷新用户活跃时间，
	// 并把兴趣分增量摊到影片的每个分类上
	Record(ctx context.Context, userID, movieID uint64, action Action) error
}

type signalServiceImpl struct {
	interestRepo repository.InterestRepo
	categoryRepo repository.CategoryRepo
	movieRepo    repository.MovieRepo
	actionRepo   repository.MovieActionRepo
	userRepo     repository.UserRepo
	cfg          *config.RecommenderConfig
}

func NewSignalService(
	interestRepo repository.InterestRepo,
	categoryRepo repository.CategoryRepo,
	movieRepo repository.MovieRepo,
	actionRepo repository.MovieActionRepo,
	userRepo repository.UserRepo,
	cfg *config.RecommenderConfig,
) SignalService {
	return &signalServiceImpl{
		interestRepo: interestRepo,
		categoryRepo: categoryRepo,
		movieRepo:    movieRepo,
		actionRepo:   actionRepo,
		userRepo:     userRepo,
		cfg:          cfg,
	}
}

func (s *signalServiceImpl) Record(ctx context.Context, userID, movieID uint64, action Action) error {
	if userID == 0 || movieID == 0 {
		return ErrParamInvalid
	}
	if action == ActionUnknown {
		// 未知行为只记日志不报错，避免新客户端灰度期间刷崩消费端
		log.DebugContext(ctx, "drop unknown signal action", "user_id", userID, "movie_id", movieID)
		return nil
	}

	movie, err := s.movieRepo.GetMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load movie for signal", "movie_id", movieID, "error", err)
		return UnExpectedError
	}
	if movie == nil {
		return ErrMovieNotFound
	}

	switch action {
	case ActionView:
		dup, err := s.isDuplicateView(ctx, userID, movieID)
		if err != nil {
			// 去重降级：Redis 不可用时按非重复处理，宁可多计一次观看
			log.WarnContext(ctx, "view dedup degraded, counting view", "user_id", userID, "movie_id", movieID, "error", err)
		}
		if dup {
			log.DebugContext(ctx, "duplicate view in dedup window", "user_id", userID, "movie_id", movieID)
			return nil
		}
		if err := s.actionRepo.CreateView(ctx, &model.MovieView{UserID: userID, MovieID: movieID, ViewedAt: time.Now()}); err != nil {
			log.ErrorContext(ctx, "failed to record view", "user_id", userID, "movie_id", movieID, "error", err)
			return UnExpectedError
		}
		if err := s.movieRepo.IncrViewsCount(ctx, movieID); err != nil {
			log.WarnContext(ctx, "failed to bump views_count", "movie_id", movieID, "error", err)
		}
	case ActionLike:
		err := s.actionRepo.CreateLike(ctx, &model.MovieLike{UserID: userID, MovieID: movieID, CreatedAt: time.Now()})
		if err != nil {
			if repository.IsDuplicateKeyError(err) {
				return ErrActionDuplicate
			}
			log.ErrorContext(ctx, "failed to record like", "user_id", userID, "movie_id", movieID, "error", err)
			return UnExpectedError
		}
		if err := s.movieRepo.IncrLikesCount(ctx, movieID, 1); err != nil {
			log.WarnContext(ctx, "failed to bump likes_count", "movie_id", movieID, "error", err)
		}
	case ActionUnlike:
		removed, err := s.actionRepo.DeleteLike(ctx, userID, movieID)
		if err != nil {
			log.ErrorContext(ctx, "failed to remove like", "user_id", userID, "movie_id", movieID, "error", err)
			return UnExpectedError
		}
		if !removed {
			// 没点过赞的取消是空操作，兴趣分也不回扣
			return nil
		}
		if err := s.movieRepo.IncrLikesCount(ctx, movieID, -1); err != nil {
			log.WarnContext(ctx, "failed to lower likes_count", "movie_id", movieID, "error", err)
		}
	}

	if err := s.userRepo.TouchLastActive(ctx, userID); err != nil {
		log.WarnContext(ctx, "failed to touch user activity", "user_id", userID, "error", err)
	}

	return s.applyInterestDelta(ctx, userID, movieID, action)
}

// applyInterestDelta 把行为增量逐分类写入兴趣分。
// 单个分类写入失败不阻断其余分类，失败项合并后一次性返回
func (s *signalServiceImpl) applyInterestDelta(ctx context.Context, userID, movieID uint64, action Action) error {
	delta := action.Increment(s.cfg.InterestIncrement)
	if delta == 0 {
		return nil
	}

	categoryIDs, err := s.categoryRepo.GetCategoryIDsByMovie(ctx, movieID)
	if err != nil {
		log.ErrorContext(ctx, "failed to resolve movie categories", "movie_id", movieID, "error", err)
		return UnExpectedError
	}
	if len(categoryIDs) == 0 {
		log.DebugContext(ctx, "movie has no categories, skip interest update", "movie_id", movieID)
		return nil
	}

	var errs []error
	for _, categoryID := range categoryIDs {
		sctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout())
		score, err := s.interestRepo.UpsertIncrement(sctx, userID, categoryID, delta, s.cfg.MaxInterestScore)
		cancel()
		if err != nil {
			log.WarnContext(ctx, "interest update failed for category",
				"user_id", userID, "category_id", categoryID, "delta", delta, "error", err)
			errs = append(errs, fmt.Errorf("category %d: %w", categoryID, err))
			continue
		}
		log.DebugContext(ctx, "interest updated",
			"user_id", userID, "category_id", categoryID, "delta", delta, "score", score)
	}
	return errors.Join(errs...)
}

// setIfAbsent 可在测试中替换，生产环境走 Redis SETNX
var setIfAbsent = redis.SetIfAbsent

func (s *signalServiceImpl) isDuplicateView(ctx context.Context, userID, movieID uint64) (bool, error) {
	key := fmt.Sprintf("%s%d:%d", consts.MovieViewDedupKey, userID, movieID)
	ok, err := setIfAbsent(ctx, key, 1, s.cfg.ViewDedupWindow())
	if err != nil {
		return false, err
	}
	return !ok, nil
}
