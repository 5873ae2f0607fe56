package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MissionRepository struct {
	DB *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: db}
}

func (r *MissionRepository) CreateMission(mission *model.Mission) error {
	return r.DB.Create(mission).Error
}

func (r *MissionRepository) FindMission(missionID string, userID uint) (*model.Mission, error) {
	var mission model.Mission
	err := r.DB.Where("id = ? AND user_id = ?", missionID, userID).First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mission, nil
}

func (r *MissionRepository) CreateFeedback(feedback *model.MissionFeedback) error {
	return r.DB.Create(feedback).Error
}

func (r *MissionRepository) FindFeedbackByMission(missionID string) ([]model.MissionFeedback, error) {
	var feedback []model.MissionFeedback
	err := r.DB.Where("mission_id = ?", missionID).
		Order("created_at ASC").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// StreakResult mirrors ActivityResult for mission streaks.
type StreakResult struct {
	Streak   model.MissionStreak
	Extended bool
	Reset    bool
}

// RecordCompletionDay bumps the mission streak for one completed day. Same
// locking discipline as the study streak, but without freeze grace: any gap
// resets it.
func (r *MissionRepository) RecordCompletionDay(userID uint, completedDate time.Time) (*StreakResult, error) {
	day := util.TruncateToDay(completedDate)

	for attempt := 0; attempt < creationRetries; attempt++ {
		result, err := r.recordCompletionOnce(userID, day)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		return result, err
	}
	return nil, util.ErrConcurrentUpdate
}

func (r *MissionRepository) recordCompletionOnce(userID uint, day time.Time) (*StreakResult, error) {
	seed := model.MissionStreak{UserID: userID}
	if err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var out *StreakResult
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var streak model.MissionStreak
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&streak).Error; err != nil {
			return err
		}

		res := &StreakResult{}
		changed := true
		switch {
		case streak.LastCompletedDate == nil:
			streak.CurrentStreak = 1
			res.Extended = true
		default:
			gap := util.DaysBetween(*streak.LastCompletedDate, day)
			switch {
			case gap <= 0:
				changed = false
			case gap == 1:
				streak.CurrentStreak++
				res.Extended = true
			default:
				streak.CurrentStreak = 1
				res.Reset = true
			}
		}

		if changed {
			streak.LastCompletedDate = &day
			if streak.CurrentStreak > streak.LongestStreak {
				streak.LongestStreak = streak.CurrentStreak
			}
			if err := tx.Save(&streak).Error; err != nil {
				return err
			}
		}

		res.Streak = streak
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MissionRepository) FindStreak(userID uint) (*model.MissionStreak, error) {
	var streak model.MissionStreak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// CreateReview writes the period-close review. The bucket is unique per
// (user, period, startDate); a second close for the same bucket is a
// conflict, not an overwrite, because reviews are read-only once generated.
func (r *MissionRepository) CreateReview(review *model.MissionReview) error {
	review.StartDate = util.TruncateToDay(review.StartDate)

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "period"}, {Name: "start_date"}},
		DoNothing: true,
	}).Create(review)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrReviewExists
	}
	return nil
}

func (r *MissionRepository) FindReviews(userID uint, period model.GoalPeriod, limit int) ([]model.MissionReview, error) {
	var reviews []model.MissionReview
	query := r.DB.Where("user_id = ?", userID)
	if period != "" {
		query = query.Where("period = ?", period)
	}
	err := query.Order("start_date DESC").Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
