package repository

import (
	"Cinebase/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// TouchLastActive 把用户拉回活跃状态并刷新最后活跃时间
	TouchLastActive(ctx context.Context, userID uint64) error
	// DemoteInactive 把最后活跃时间早于 cutoff 的活跃用户标记为沉默，返回降级人数
	DemoteInactive(ctx context.Context, cutoff time.Time) (int64, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

func (s *userRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userRepoImpl) GetUserByID(ctx context.Context, userID uint64) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) TouchLastActive(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND status <> ?", userID, model.UserStatusBanned).
		Updates(map[string]interface{}{
			"last_active_at": time.Now(),
			"status":         model.UserStatusActive,
		}).Error
}

func (s *userRepoImpl) DemoteInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("status = ? AND last_active_at < ?", model.UserStatusActive, cutoff).
		Update("status", model.UserStatusInactive)
	return res.RowsAffected, res.Error
}
