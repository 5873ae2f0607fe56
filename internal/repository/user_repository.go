package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

// DeleteCascade removes the user and every analytics row they own in a single
// transaction. Soft-delete is bypassed on purpose: account deletion is a hard
// removal, and dependents must not survive as orphans.
func (r *UserRepository) DeleteCascade(userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		// Children of children first: rows keyed through a parent table.
		if err := tx.Unscoped().
			Where("query_id IN (?)", tx.Model(&model.SearchQuery{}).Select("id").Where("user_id = ?", userID)).
			Delete(&model.SearchClick{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("insight_id IN (?)", tx.Model(&model.BehavioralInsight{}).Select("id").Where("user_id = ?", userID)).
			Delete(&model.InsightPattern{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("saved_search_id IN (?)", tx.Model(&model.SavedSearch{}).Select("id").Where("user_id = ?", userID)).
			Delete(&model.SearchAlert{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().
			Where("mission_id IN (?)", tx.Model(&model.Mission{}).Select("id").Where("user_id = ?", userID)).
			Delete(&model.MissionFeedback{}).Error; err != nil {
			return err
		}

		owned := []interface{}{
			&model.Streak{},
			&model.MissionStreak{},
			&model.Achievement{},
			&model.StudyGoal{},
			&model.Mission{},
			&model.MissionAnalytics{},
			&model.MissionReview{},
			&model.BehavioralPattern{},
			&model.BehavioralInsight{},
			&model.UserLearningProfile{},
			&model.SearchQuery{},
			&model.SavedSearch{},
			&model.SearchAnalytics{},
		}
		for _, entity := range owned {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(entity).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&user).Error
	})
}
