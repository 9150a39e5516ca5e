package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestRecordViewFansOutHalfIncrement(t *testing.T) {
	allowAllDedup(t)
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t, "alice")
	action := env.seedCategory(t, "动作")
	comedy := env.seedCategory(t, "喜剧")
	movieID := env.seedMovie(t, "双分类", 0, 0, true, action, comedy)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)
	if err := svc.Record(ctx, userID, movieID, ActionView); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// 观看增量是基础增量的一半，摊到每个分类
	for _, categoryID := range []uint64{action, comedy} {
		score, err := env.interestRepo.Get(ctx, userID, categoryID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if math.Abs(score-0.1) > 1e-9 {
			t.Errorf("category %d score = %v, want 0.1", categoryID, score)
		}
	}

	movie, _ := env.movieRepo.GetMovie(ctx, movieID)
	if movie.ViewsCount != 1 {
		t.Errorf("views_count = %d, want 1", movie.ViewsCount)
	}
	viewed, _ := env.actionRepo.GetViewedMovieIDs(ctx, userID)
	if len(viewed) != 1 {
		t.Errorf("viewed = %v, want one entry", viewed)
	}
}

func TestRecordViewDedupWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 第一次放行，之后全部判重
	calls := 0
	old := setIfAbsent
	setIfAbsent = func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
		calls++
		return calls == 1, nil
	}
	t.Cleanup(func() { setIfAbsent = old })

	userID := env.seedUser(t, "alice")
	categoryID := env.seedCategory(t, "动作")
	movieID := env.seedMovie(t, "m", 0, 0, true, categoryID)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)
	for i := 0; i < 3; i++ {
		if err := svc.Record(ctx, userID, movieID, ActionView); err != nil {
			t.Fatalf("Record #%d: %v", i, err)
		}
	}

	movie, _ := env.movieRepo.GetMovie(ctx, movieID)
	if movie.ViewsCount != 1 {
		t.Errorf("views_count = %d, want 1 inside dedup window", movie.ViewsCount)
	}
	score, _ := env.interestRepo.Get(ctx, userID, categoryID)
	if math.Abs(score-0.1) > 1e-9 {
		t.Errorf("score = %v, want single 0.1 increment", score)
	}
}

func TestRecordViewDedupDegradesOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := setIfAbsent
	setIfAbsent = func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
		return false, errors.New("redis down")
	}
	t.Cleanup(func() { setIfAbsent = old })

	userID := env.seedUser(t, "alice")
	categoryID := env.seedCategory(t, "动作")
	movieID := env.seedMovie(t, "m", 0, 0, true, categoryID)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)
	if err := svc.Record(ctx, userID, movieID, ActionView); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// 去重故障按非重复处理，观看照常入账
	movie, _ := env.movieRepo.GetMovie(ctx, movieID)
	if movie.ViewsCount != 1 {
		t.Errorf("views_count = %d, want 1 when dedup degraded", movie.ViewsCount)
	}
}

func TestRecordLikeThenUnlikeRestores(t *testing.T) {
	allowAllDedup(t)
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t, "alice")
	categoryID := env.seedCategory(t, "动作")
	movieID := env.seedMovie(t, "m", 0, 0, true, categoryID)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)

	if err := svc.Record(ctx, userID, movieID, ActionLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	score, _ := env.interestRepo.Get(ctx, userID, categoryID)
	if math.Abs(score-0.2) > 1e-9 {
		t.Fatalf("score after like = %v, want 0.2", score)
	}
	movie, _ := env.movieRepo.GetMovie(ctx, movieID)
	if movie.LikesCount != 1 {
		t.Fatalf("likes_count = %d, want 1", movie.LikesCount)
	}

	if err := svc.Record(ctx, userID, movieID, ActionUnlike); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	score, _ = env.interestRepo.Get(ctx, userID, categoryID)
	if score != 0 {
		t.Errorf("score after unlike = %v, want 0 (row removed)", score)
	}
	movie, _ = env.movieRepo.GetMovie(ctx, movieID)
	if movie.LikesCount != 0 {
		t.Errorf("likes_count = %d, want 0", movie.LikesCount)
	}
}

func TestRecordDuplicateLike(t *testing.T) {
	allowAllDedup(t)
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t, "alice")
	categoryID := env.seedCategory(t, "动作")
	movieID := env.seedMovie(t, "m", 0, 0, true, categoryID)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)
	if err := svc.Record(ctx, userID, movieID, ActionLike); err != nil {
		t.Fatalf("like: %v", err)
	}
	err := svc.Record(ctx, userID, movieID, ActionLike)
	if !errors.Is(err, ErrActionDuplicate) {
		t.Fatalf("duplicate like error = %v, want ErrActionDuplicate", err)
	}

	// 重复点赞不得重复计分或计数
	score, _ := env.interestRepo.Get(ctx, userID, categoryID)
	if math.Abs(score-0.2) > 1e-9 {
		t.Errorf("score = %v, want 0.2", score)
	}
	movie, _ := env.movieRepo.GetMovie(ctx, movieID)
	if movie.LikesCount != 1 {
		t.Errorf("likes_count = %d, want 1", movie.LikesCount)
	}
}

func TestRecordUnlikeWithoutLikeIsNoop(t *testing.T) {
	allowAllDedup(t)
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t, "alice")
	categoryID := env.seedCategory(t, "动作")
	movieID := env.seedMovie(t, "m", 0, 5, true, categoryID)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)
	if err := svc.Record(ctx, userID, movieID, ActionUnlike); err != nil {
		t.Fatalf("unlike: %v", err)
	}

	score, _ := env.interestRepo.Get(ctx, userID, categoryID)
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
	movie, _ := env.movieRepo.GetMovie(ctx, movieID)
	if movie.LikesCount != 5 {
		t.Errorf("likes_count = %d, counter must not move", movie.LikesCount)
	}
}

func TestRecordEdgeCases(t *testing.T) {
	allowAllDedup(t)
	env := newTestEnv(t)
	ctx := context.Background()

	userID := env.seedUser(t, "alice")
	uncategorized := env.seedMovie(t, "无分类", 0, 0, true)

	svc := NewSignalService(env.interestRepo, env.categoryRepo, env.movieRepo, env.actionRepo, env.userRepo, env.cfg)

	if err := svc.Record(ctx, userID, 99999, ActionLike); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("unknown movie error = %v, want ErrMovieNotFound", err)
	}
	if err := svc.Record(ctx, 0, uncategorized, ActionLike); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("zero user error = %v, want ErrParamInvalid", err)
	}
	if err := svc.Record(ctx, userID, uncategorized, ActionUnknown); err != nil {
		t.Errorf("unknown action error = %v, want nil (dropped)", err)
	}

	// 无分类影片：观看照常计数，但不会产生任何兴趣行
	if err := svc.Record(ctx, userID, uncategorized, ActionView); err != nil {
		t.Fatalf("view: %v", err)
	}
	movie, _ := env.movieRepo.GetMovie(ctx, uncategorized)
	if movie.ViewsCount != 1 {
		t.Errorf("views_count = %d, want 1", movie.ViewsCount)
	}
	interests, _ := env.interestRepo.ListPositive(ctx, userID)
	if len(interests) != 0 {
		t.Errorf("interests = %v, want none", interests)
	}
}
