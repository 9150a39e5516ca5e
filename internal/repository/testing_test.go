package repository

import (
	"Cinebase/internal/model"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库。
// SQLite 内存库只允许单连接，并发测试靠它串行化到同一个库
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}
