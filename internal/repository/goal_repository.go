package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) Create(goal *model.StudyGoal) error {
	return r.DB.Create(goal).Error
}

func (r *GoalRepository) FindByIDAndUserID(goalID string, userID uint) (*model.StudyGoal, error) {
	var goal model.StudyGoal
	err := r.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) FindByUserID(userID uint) ([]model.StudyGoal, error) {
	var goals []model.StudyGoal
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepository) FindActiveByType(userID uint, goalType model.GoalType, at time.Time) ([]model.StudyGoal, error) {
	var goals []model.StudyGoal
	err := r.DB.Where(
		"user_id = ? AND goal_type = ? AND is_completed = false AND start_date <= ? AND end_date > ?",
		userID, goalType, at, at,
	).Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// Advance adds amount to the goal's progress under a row lock, flipping
// isCompleted exactly once when the target is first reached. A completed goal
// is a no-op; a goal outside its [startDate, endDate) window is rejected.
// Returns the updated goal and whether this call completed it.
func (r *GoalRepository) Advance(goalID string, userID uint, amount int, now time.Time) (*model.StudyGoal, bool, error) {
	var goal model.StudyGoal
	completed := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		if err != nil {
			return err
		}

		if goal.IsCompleted {
			return nil
		}
		if now.Before(goal.StartDate) || !now.Before(goal.EndDate) {
			return util.ErrGoalExpired
		}

		goal.CurrentProgress += amount
		if goal.CurrentProgress >= goal.TargetValue {
			goal.IsCompleted = true
			completedAt := now
			goal.CompletedAt = &completedAt
			completed = true
		}
		return tx.Save(&goal).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &goal, completed, nil
}

func (r *GoalRepository) Delete(goalID string, userID uint) error {
	result := r.DB.Where("id = ? AND user_id = ?", goalID, userID).Delete(&model.StudyGoal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
