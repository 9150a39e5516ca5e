package repository

import (
	"Cinebase/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// casMaxRetries 乐观并发冲突时的最大重试次数
const casMaxRetries = 5

var ErrInterestConflict = errors.New("兴趣分更新冲突，重试次数耗尽")

type InterestRepo interface {
	// UpsertIncrement 原子地对 (user, category) 的兴趣分加 delta，返回更新后的得分。
	// 行不存在且 delta <= 0 时不落库；得分降到 <= 0 时删除该行并返回 0；
	// 得分上限为 maxScore。
	UpsertIncrement(ctx context.Context, userID, categoryID uint64, delta, maxScore float64) (float64, error)
	Get(ctx context.Context, userID, categoryID uint64) (float64, error)
	Top(ctx context.Context, userID uint64, n int) ([]*model.UserInterest, error)
	ListPositive(ctx context.Context, userID uint64) ([]*model.UserInterest, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type interestRepoImpl struct {
	db *gorm.DB
}

func NewInterestRepository(db *gorm.DB) InterestRepo {
	return &interestRepoImpl{db: db}
}

// UpsertIncrement 采用 CAS 重试循环保证并发写不丢更新：
// UPDATE/DELETE 都以读到的旧分数作为条件，未命中说明有并发写入，重新读取再试
func (r *interestRepoImpl) UpsertIncrement(ctx context.Context, userID, categoryID uint64, delta, maxScore float64) (float64, error) {
	for i := 0; i < casMaxRetries; i++ {
		var row model.UserInterest
		err := r.db.WithContext(ctx).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			First(&row).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if delta <= 0 {
				return 0, nil
			}
			score := delta
			if score > maxScore {
				score = maxScore
			}
			createErr := r.db.WithContext(ctx).Create(&model.UserInterest{
				UserID:     userID,
				CategoryID: categoryID,
				Score:      score,
				UpdatedAt:  time.Now(),
			}).Error
			if createErr == nil {
				return score, nil
			}
			if IsDuplicateKeyError(createErr) {
				// 并发创建抢先一步，重新走更新路径
				continue
			}
			return 0, createErr
		}
		if err != nil {
			return 0, err
		}

		newScore := row.Score + delta
		if newScore > maxScore {
			newScore = maxScore
		}

		if newScore <= 0 {
			res := r.db.WithContext(ctx).
				Where("user_id = ? AND category_id = ? AND score = ?", userID, categoryID, row.Score).
				Delete(&model.UserInterest{})
			if res.Error != nil {
				return 0, res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			return 0, nil
		}

		res := r.db.WithContext(ctx).Model(&model.UserInterest{}).
			Where("user_id = ? AND category_id = ? AND score = ?", userID, categoryID, row.Score).
			Updates(map[string]interface{}{
				"score":      newScore,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		return newScore, nil
	}
	return 0, ErrInterestConflict
}

// Get 不存在视为零亲和度，不报错
func (r *interestRepoImpl) Get(ctx context.Context, userID, categoryID uint64) (float64, error) {
	var row model.UserInterest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Score, nil
}

// Top 按得分从高到低取用户前 n 个兴趣分类
func (r *interestRepoImpl) Top(ctx context.Context, userID uint64, n int) ([]*model.UserInterest, error) {
	rows := make([]*model.UserInterest, 0, n)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *interestRepoImpl) ListPositive(ctx context.Context, userID uint64) ([]*model.UserInterest, error) {
	var rows []*model.UserInterest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOlderThan 清理长期未更新的兴趣行，返回删除条数
func (r *interestRepoImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&model.UserInterest{})
	return res.RowsAffected, res.Error
}
