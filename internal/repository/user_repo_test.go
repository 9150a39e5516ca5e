package repository

import (
	"Cinebase/internal/model"
	"context"
	"testing"
	"time"
)

func seedUser(t *testing.T, repo UserRepo, username string, status int8, lastActive time.Time) uint64 {
	t.Helper()
	user := &model.User{
		Username:     username,
		Password:     "x",
		Role:         "USER",
		Status:       status,
		LastActiveAt: lastActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return user.ID
}

func TestTouchLastActiveRevivesUser(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	stale := time.Now().Add(-200 * 24 * time.Hour)
	id := seedUser(t, repo, "alice", model.UserStatusInactive, stale)

	if err := repo.TouchLastActive(ctx, id); err != nil {
		t.Fatalf("TouchLastActive: %v", err)
	}

	user, err := repo.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.Status != model.UserStatusActive {
		t.Errorf("status = %d, want active", user.Status)
	}
	if !user.LastActiveAt.After(stale) {
		t.Error("last_active_at not refreshed")
	}
}

func TestTouchLastActiveSkipsBanned(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	id := seedUser(t, repo, "mallory", model.UserStatusBanned, time.Now().Add(-time.Hour))

	if err := repo.TouchLastActive(ctx, id); err != nil {
		t.Fatalf("TouchLastActive: %v", err)
	}
	user, _ := repo.GetUserByID(ctx, id)
	if user.Status != model.UserStatusBanned {
		t.Errorf("status = %d, banned user must stay banned", user.Status)
	}
}

func TestDemoteInactiveIsIdempotent(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	now := time.Now()
	seedUser(t, repo, "ghost", model.UserStatusActive, now.Add(-365*24*time.Hour))
	activeID := seedUser(t, repo, "alive", model.UserStatusActive, now.Add(-time.Hour))

	cutoff := now.Add(-180 * 24 * time.Hour)
	demoted, err := repo.DemoteInactive(ctx, cutoff)
	if err != nil {
		t.Fatalf("DemoteInactive: %v", err)
	}
	if demoted != 1 {
		t.Errorf("demoted = %d, want 1", demoted)
	}

	demoted, err = repo.DemoteInactive(ctx, cutoff)
	if err != nil {
		t.Fatalf("second DemoteInactive: %v", err)
	}
	if demoted != 0 {
		t.Errorf("second run demoted = %d, want 0", demoted)
	}

	user, _ := repo.GetUserByID(ctx, activeID)
	if user.Status != model.UserStatusActive {
		t.Errorf("recently active user demoted")
	}
}

func TestGetUserByUsernameMissing(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))

	user, err := repo.GetUserByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil", user)
	}
}
