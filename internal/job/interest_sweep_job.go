package job

import (
	"Cinebase/internal/pkg/logger"
	"Cinebase/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// InterestSweepJob 定时清扫过期兴趣分和沉默用户
type InterestSweepJob struct {
	maintenanceService service.MaintenanceService
}

func NewInterestSweepJob(maintenanceService service.MaintenanceService) *InterestSweepJob {
	return &InterestSweepJob{
		maintenanceService: maintenanceService,
	}
}

func (s *InterestSweepJob) Run() {
	traceID := "job-sweep-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	log.InfoContext(ctx, "InterestSweepJob starting")

	result, err := s.maintenanceService.Sweep(ctx)
	if err != nil {
		log.ErrorContext(ctx, "interest sweep failed", "err", err)
		return
	}

	log.InfoContext(ctx, "InterestSweepJob finished",
		"interests_removed", result.InterestsRemoved,
		"users_demoted", result.UsersDemoted)
}
