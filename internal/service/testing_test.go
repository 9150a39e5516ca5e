package service

import (
	"Cinebase/internal/api/config"
	"Cinebase/internal/model"
	"Cinebase/internal/repository"
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db           *gorm.DB
	userRepo     repository.UserRepo
	interestRepo repository.InterestRepo
	categoryRepo repository.CategoryRepo
	movieRepo    repository.MovieRepo
	actionRepo   repository.MovieActionRepo
	cfg          *config.RecommenderConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%p?mode=memory&cache=shared", t)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Movie{},
		&model.MovieVideo{},
		&model.MovieCategory{},
		&model.MovieLike{},
		&model.MovieView{},
		&model.UserInterest{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &testEnv{
		db:           db,
		userRepo:     repository.NewUserRepo(db),
		interestRepo: repository.NewInterestRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		movieRepo:    repository.NewMovieRepository(db),
		actionRepo:   repository.NewMovieActionRepo(db),
		cfg: &config.RecommenderConfig{
			InterestIncrement:       0.2,
			MaxInterestScore:        5.0,
			RecommendationThreshold: 0.5,
			StalenessDays:           90,
			InactivityDays:          180,
			ViewDedupHours:          24,
			StoreTimeoutMs:          500,
		},
	}
}

// allowAllDedup 测试默认放行所有观看，不依赖 Redis
func allowAllDedup(t *testing.T) {
	t.Helper()
	old := setIfAbsent
	setIfAbsent = func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
		return true, nil
	}
	t.Cleanup(func() { setIfAbsent = old })
}

func (e *testEnv) seedUser(t *testing.T, username string) uint64 {
	t.Helper()
	user := &model.User{
		Username:     username,
		Password:     "x",
		Role:         "USER",
		Status:       model.UserStatusActive,
		LastActiveAt: time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := e.userRepo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func (e *testEnv) seedCategory(t *testing.T, name string) uint64 {
	t.Helper()
	category, err := e.categoryRepo.GetOrCreateCategory(context.Background(), name, "")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category.ID
}

func (e *testEnv) seedMovie(t *testing.T, title string, views, likes int64, playable bool, categoryIDs ...uint64) uint64 {
	t.Helper()
	ctx := context.Background()

	movie := &model.Movie{
		Title:      title,
		Status:     1,
		ViewsCount: views,
		LikesCount: likes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := e.movieRepo.CreateMovie(ctx, movie); err != nil {
		t.Fatalf("seed movie %s: %v", title, err)
	}
	if playable {
		if err := e.movieRepo.CreateVideo(ctx, &model.MovieVideo{MovieID: movie.ID, FileID: "f-" + title, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("seed video %s: %v", title, err)
		}
	}
	if len(categoryIDs) > 0 {
		if err := e.categoryRepo.ReplaceMovieCategories(ctx, movie.ID, categoryIDs); err != nil {
			t.Fatalf("seed movie categories %s: %v", title, err)
		}
	}
	return movie.ID
}

func (e *testEnv) setInterest(t *testing.T, userID, categoryID uint64, score float64) {
	t.Helper()
	if _, err := e.interestRepo.UpsertIncrement(context.Background(), userID, categoryID, score, e.cfg.MaxInterestScore); err != nil {
		t.Fatalf("seed interest: %v", err)
	}
}
