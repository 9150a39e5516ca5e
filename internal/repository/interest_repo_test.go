package repository

import (
	"Cinebase/internal/model"
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

const (
	testIncrement = 0.2
	testMaxScore  = 5.0
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestUpsertIncrementSequences(t *testing.T) {
	tests := []struct {
		name      string
		deltas    []float64
		wantScore float64
		wantRow   bool
	}{
		{"单次点赞建行", []float64{testIncrement}, 0.2, true},
		{"连续累加", []float64{0.2, 0.2, 0.1}, 0.5, true},
		{"封顶不超上限", []float64{3.0, 3.0}, testMaxScore, true},
		{"首笔即超上限", []float64{9.9}, testMaxScore, true},
		{"负增量不落库", []float64{-0.2}, 0, false},
		{"归零删除行", []float64{0.2, -0.2}, 0, false},
		{"穿透零删除行", []float64{0.2, -0.5}, 0, false},
		{"删除后可重建", []float64{0.2, -0.2, 0.4}, 0.4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewInterestRepository(newTestDB(t))
			ctx := context.Background()

			var got float64
			var err error
			for _, d := range tt.deltas {
				got, err = repo.UpsertIncrement(ctx, 1, 10, d, testMaxScore)
				if err != nil {
					t.Fatalf("UpsertIncrement(%v): %v", d, err)
				}
			}
			if !almostEqual(got, tt.wantScore) {
				t.Errorf("score = %v, want %v", got, tt.wantScore)
			}

			stored, err := repo.Get(ctx, 1, 10)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if tt.wantRow && !almostEqual(stored, tt.wantScore) {
				t.Errorf("stored score = %v, want %v", stored, tt.wantScore)
			}
			if !tt.wantRow && stored != 0 {
				t.Errorf("stored score = %v, want no row", stored)
			}
		})
	}
}

// 并发累加不允许丢更新：总分必须等于所有增量之和
func TestUpsertIncrementConcurrent(t *testing.T) {
	repo := NewInterestRepository(newTestDB(t))
	ctx := context.Background()

	const (
		workers       = 8
		incrPerWorker = 10
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < incrPerWorker; j++ {
				for {
					_, err := repo.UpsertIncrement(ctx, 1, 10, testIncrement, 100)
					if errors.Is(err, ErrInterestConflict) {
						continue
					}
					if err != nil {
						t.Errorf("UpsertIncrement: %v", err)
					}
					break
				}
			}
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := float64(workers*incrPerWorker) * testIncrement
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("score after concurrent increments = %v, want %v", got, want)
	}
}

func TestTopOrdersByScore(t *testing.T) {
	repo := NewInterestRepository(newTestDB(t))
	ctx := context.Background()

	scores := map[uint64]float64{10: 0.4, 11: 1.2, 12: 0.8}
	for cid, s := range scores {
		if _, err := repo.UpsertIncrement(ctx, 1, cid, s, testMaxScore); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	top, err := repo.Top(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].CategoryID != 11 || top[1].CategoryID != 12 {
		t.Errorf("order = [%d %d], want [11 12]", top[0].CategoryID, top[1].CategoryID)
	}
}

func TestDeleteOlderThanIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewInterestRepository(db)
	ctx := context.Background()

	now := time.Now()
	rows := []*model.UserInterest{
		{UserID: 1, CategoryID: 10, Score: 0.4, UpdatedAt: now.Add(-100 * 24 * time.Hour)},
		{UserID: 1, CategoryID: 11, Score: 0.4, UpdatedAt: now.Add(-1 * time.Hour)},
		{UserID: 2, CategoryID: 10, Score: 1.0, UpdatedAt: now.Add(-200 * 24 * time.Hour)},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	cutoff := now.Add(-90 * 24 * time.Hour)
	removed, err := repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	removed, err = repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("second DeleteOlderThan: %v", err)
	}
	if removed != 0 {
		t.Errorf("second run removed = %d, want 0", removed)
	}

	if score, _ := repo.Get(ctx, 1, 11); !almostEqual(score, 0.4) {
		t.Errorf("fresh row score = %v, want 0.4", score)
	}
}
