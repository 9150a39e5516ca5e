package service

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestSimilarMoviesOverlapRatio(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	action := env.seedCategory(t, "动作")
	comedy := env.seedCategory(t, "喜剧")
	scifi := env.seedCategory(t, "科幻")

	source := env.seedMovie(t, "源影片", 0, 0, true, action, comedy)
	full := env.seedMovie(t, "全重合", 10, 0, true, action, comedy)
	half := env.seedMovie(t, "半重合", 50, 0, true, action)
	env.seedMovie(t, "无重合", 100, 0, true, scifi)
	env.seedMovie(t, "不可播", 100, 0, false, action, comedy)

	svc := NewSimilarityService(env.movieRepo, env.categoryRepo)
	got, err := svc.SimilarMovies(ctx, source, 10)
	if err != nil {
		t.Fatalf("SimilarMovies: %v", err)
	}

	if len(got) != 2 {
		ids := make([]uint64, 0, len(got))
		for _, c := range got {
			ids = append(ids, c.Movie.ID)
		}
		t.Fatalf("candidates = %v, want [%d %d]", ids, full, half)
	}
	if got[0].Movie.ID != full || math.Abs(got[0].Score-1.0) > 1e-9 {
		t.Errorf("first = (%d, %v), want (%d, 1.0)", got[0].Movie.ID, got[0].Score, full)
	}
	if got[1].Movie.ID != half || math.Abs(got[1].Score-0.5) > 1e-9 {
		t.Errorf("second = (%d, %v), want (%d, 0.5)", got[1].Movie.ID, got[1].Score, half)
	}
}

func TestSimilarMoviesTieBreakByViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	action := env.seedCategory(t, "动作")
	source := env.seedMovie(t, "源影片", 0, 0, true, action)
	cold := env.seedMovie(t, "冷门", 5, 0, true, action)
	hot := env.seedMovie(t, "热门", 500, 0, true, action)

	svc := NewSimilarityService(env.movieRepo, env.categoryRepo)
	got, err := svc.SimilarMovies(ctx, source, 10)
	if err != nil {
		t.Fatalf("SimilarMovies: %v", err)
	}
	if len(got) != 2 || got[0].Movie.ID != hot || got[1].Movie.ID != cold {
		t.Errorf("order wrong: got %v, want hot %d before cold %d", got, hot, cold)
	}
}

func TestSimilarMoviesLimitAndEdges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	action := env.seedCategory(t, "动作")
	source := env.seedMovie(t, "源影片", 0, 0, true, action)
	for i := 0; i < 5; i++ {
		env.seedMovie(t, "候选", int64(i), 0, true, action)
	}
	orphan := env.seedMovie(t, "无分类", 0, 0, true)

	svc := NewSimilarityService(env.movieRepo, env.categoryRepo)

	got, err := svc.SimilarMovies(ctx, source, 3)
	if err != nil {
		t.Fatalf("SimilarMovies: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want limit 3", len(got))
	}
	for _, c := range got {
		if c.Movie.ID == source {
			t.Error("source movie recommended to itself")
		}
	}

	got, err = svc.SimilarMovies(ctx, orphan, 3)
	if err != nil {
		t.Fatalf("SimilarMovies(orphan): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("orphan candidates = %v, want empty", got)
	}

	if _, err := svc.SimilarMovies(ctx, 99999, 3); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("unknown movie error = %v, want ErrMovieNotFound", err)
	}
	if _, err := svc.SimilarMovies(ctx, source, 0); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("zero limit error = %v, want ErrParamInvalid", err)
	}
}
