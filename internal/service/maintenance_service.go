package service

import (
	"Cinebase/internal/api/config"
	"Cinebase/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// SweepResult 一次维护清扫的统计
type SweepResult struct {
	InterestsRemoved int64 `json:"interests_removed"`
	UsersDemoted     int64 `json:"users_demoted"`
}

type MaintenanceService interface {
	// Sweep 删除过期的兴趣分并把长期不活跃的用户降为沉默状态。
	// 幂等：连续跑两次，第二次的删除和降级数都是零
	Sweep(ctx context.Context) (*SweepResult, error)
}

type maintenanceServiceImpl struct {
	interestRepo repository.InterestRepo
	userRepo     repository.UserRepo
	cfg          *config.RecommenderConfig
}

func NewMaintenanceService(
	interestRepo repository.InterestRepo,
	userRepo repository.UserRepo,
	cfg *config.RecommenderConfig,
) MaintenanceService {
	return &maintenanceServiceImpl{
		interestRepo: interestRepo,
		userRepo:     userRepo,
		cfg:          cfg,
	}
}

func (s *maintenanceServiceImpl) Sweep(ctx context.Context) (*SweepResult, error) {
	now := time.Now()
	result := &SweepResult{}

	// 两步各自独立提交，清扫不允许挂在摄入事务里堵写请求
	removed, err := s.interestRepo.DeleteOlderThan(ctx, now.Add(-s.cfg.StalenessWindow()))
	if err != nil {
		log.ErrorContext(ctx, "failed to prune stale interests", "error", err)
		return nil, UnExpectedError
	}
	result.InterestsRemoved = removed

	demoted, err := s.userRepo.DemoteInactive(ctx, now.Add(-s.cfg.InactivityWindow()))
	if err != nil {
		log.ErrorContext(ctx, "failed to demote inactive users", "error", err)
		// 兴趣清理已经生效，带上部分结果返回
		return result, UnExpectedError
	}
	result.UsersDemoted = demoted

	log.InfoContext(ctx, "maintenance sweep finished",
		"interests_removed", result.InterestsRemoved, "users_demoted", result.UsersDemoted)
	return result, nil
}
