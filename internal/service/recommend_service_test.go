package service

import (
	"Cinebase/internal/model"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func newRecommendService(env *testEnv) RecommendService {
	return NewRecommendService(env.interestRepo, env.movieRepo, env.categoryRepo, env.actionRepo, env.cfg)
}

func (e *testEnv) markViewed(t *testing.T, userID, movieID uint64) {
	t.Helper()
	view := &model.MovieView{UserID: userID, MovieID: movieID, ViewedAt: time.Now()}
	if err := e.actionRepo.CreateView(context.Background(), view); err != nil {
		t.Fatalf("mark viewed: %v", err)
	}
}

func TestRecommendRanksByMeanInterest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	action := env.seedCategory(t, "动作")
	comedy := env.seedCategory(t, "喜剧")

	env.setInterest(t, user, action, 1.0)
	env.setInterest(t, user, comedy, 0.2)

	mixed := env.seedMovie(t, "动作喜剧", 10, 0, true, action, comedy)  // 均值 0.6
	comedyOnly := env.seedMovie(t, "纯喜剧", 999, 0, true, comedy)     // 均值 0.2，低于阈值
	pureAction := env.seedMovie(t, "纯动作", 0, 0, true, action)       // 均值 1.0

	svc := newRecommendService(env)

	// limit 刚好被兴趣排序填满时不触发兜底，低于阈值的影片不出现
	got, err := svc.Recommend(ctx, user, 2, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []uint64{pureAction, mixed}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %v, want %v", got, want)
	}

	// limit 放大后低于阈值的影片只能走热度兜底，排在最后
	got, err = svc.Recommend(ctx, user, 10, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want = []uint64{pureAction, mixed, comedyOnly}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %v, want %v", got, want)
	}
}

func TestRecommendExcludesSeen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	action := env.seedCategory(t, "动作")
	env.setInterest(t, user, action, 1.0)

	seen := env.seedMovie(t, "看过的", 100, 0, true, action)
	fresh := env.seedMovie(t, "没看过的", 10, 0, true, action)
	env.markViewed(t, user, seen)

	svc := newRecommendService(env)
	got, err := svc.Recommend(ctx, user, 10, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !reflect.DeepEqual(got, []uint64{fresh}) {
		t.Errorf("recommendations = %v, want only %d", got, fresh)
	}
}

func TestRecommendPopularityFallbackFills(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	action := env.seedCategory(t, "动作")
	comedy := env.seedCategory(t, "喜剧")
	env.setInterest(t, user, action, 1.0)

	ranked := env.seedMovie(t, "兴趣命中", 0, 0, true, action)
	hot := env.seedMovie(t, "热门兜底", 1000, 500, true, comedy)
	cold := env.seedMovie(t, "冷门兜底", 10, 0, true, comedy)

	svc := newRecommendService(env)
	got, err := svc.Recommend(ctx, user, 3, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []uint64{ranked, hot, cold}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recommendations = %v, want %v", got, want)
	}
}

func TestRecommendNoInterestsIsPurePopularity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	comedy := env.seedCategory(t, "喜剧")
	hot := env.seedMovie(t, "热门", 1000, 0, true, comedy)
	cold := env.seedMovie(t, "冷门", 1, 0, true, comedy)

	svc := newRecommendService(env)
	got, err := svc.Recommend(ctx, user, 10, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !reflect.DeepEqual(got, []uint64{hot, cold}) {
		t.Errorf("recommendations = %v, want [%d %d]", got, hot, cold)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "alice")

	svc := newRecommendService(env)
	got, err := svc.Recommend(context.Background(), user, 10, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("recommendations = %v, want empty", got)
	}
}

func TestRecommendPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	action := env.seedCategory(t, "动作")
	env.setInterest(t, user, action, 1.0)

	// 同分候选按创建时间降序，后插入的排前面
	var seeded []uint64
	for i := 0; i < 5; i++ {
		id := env.seedMovie(t, "候选", 0, 0, true, action)
		seeded = append(seeded, id)
		time.Sleep(2 * time.Millisecond)
	}

	svc := newRecommendService(env)
	first, err := svc.Recommend(ctx, user, 2, 0)
	if err != nil {
		t.Fatalf("Recommend(offset=0): %v", err)
	}
	second, err := svc.Recommend(ctx, user, 2, 2)
	if err != nil {
		t.Fatalf("Recommend(offset=2): %v", err)
	}
	if !reflect.DeepEqual(first, []uint64{seeded[4], seeded[3]}) {
		t.Errorf("first page = %v, want %v", first, []uint64{seeded[4], seeded[3]})
	}
	if !reflect.DeepEqual(second, []uint64{seeded[2], seeded[1]}) {
		t.Errorf("second page = %v, want %v", second, []uint64{seeded[2], seeded[1]})
	}
	for _, id := range second {
		for _, f := range first {
			if id == f {
				t.Errorf("movie %d appears on both pages", id)
			}
		}
	}
}

func TestRecommendParamValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newRecommendService(env)

	cases := []struct {
		name   string
		userID uint64
		limit  int
		offset int
	}{
		{"用户为零", 0, 10, 0},
		{"limit 为零", 1, 0, 0},
		{"offset 为负", 1, 10, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Recommend(context.Background(), tc.userID, tc.limit, tc.offset); !errors.Is(err, ErrParamInvalid) {
				t.Errorf("err = %v, want ErrParamInvalid", err)
			}
		})
	}
}

func TestRecommendFallbackPaginationAdvances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	comedy := env.seedCategory(t, "喜剧")
	first := env.seedMovie(t, "热度一", 300, 0, true, comedy)
	second := env.seedMovie(t, "热度二", 200, 0, true, comedy)
	third := env.seedMovie(t, "热度三", 100, 0, true, comedy)

	// 没有兴趣档案时完全走热度兜底，翻页必须沿热度列表推进
	svc := newRecommendService(env)
	page1, err := svc.Recommend(ctx, user, 2, 0)
	if err != nil {
		t.Fatalf("Recommend(offset=0): %v", err)
	}
	page2, err := svc.Recommend(ctx, user, 2, 2)
	if err != nil {
		t.Fatalf("Recommend(offset=2): %v", err)
	}
	if !reflect.DeepEqual(page1, []uint64{first, second}) {
		t.Errorf("page1 = %v, want [%d %d]", page1, first, second)
	}
	if !reflect.DeepEqual(page2, []uint64{third}) {
		t.Errorf("page2 = %v, want [%d]", page2, third)
	}
}

func TestRecommendPagesPastRankedIntoFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.seedUser(t, "alice")
	action := env.seedCategory(t, "动作")
	comedy := env.seedCategory(t, "喜剧")
	env.setInterest(t, user, action, 1.0)

	ranked := env.seedMovie(t, "兴趣命中", 0, 0, true, action)
	hot := env.seedMovie(t, "热门", 300, 0, true, comedy)
	cold := env.seedMovie(t, "冷门", 100, 0, true, comedy)

	svc := newRecommendService(env)
	page1, err := svc.Recommend(ctx, user, 2, 0)
	if err != nil {
		t.Fatalf("Recommend(offset=0): %v", err)
	}
	page2, err := svc.Recommend(ctx, user, 2, 2)
	if err != nil {
		t.Fatalf("Recommend(offset=2): %v", err)
	}
	if !reflect.DeepEqual(page1, []uint64{ranked, hot}) {
		t.Errorf("page1 = %v, want [%d %d]", page1, ranked, hot)
	}
	if !reflect.DeepEqual(page2, []uint64{cold}) {
		t.Errorf("page2 = %v, want [%d]", page2, cold)
	}
}
