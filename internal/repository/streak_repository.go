package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// creationRetries bounds the retry loop around the streak-row creation race.
const creationRetries = 3

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

// ActivityResult reports what RecordActivity did, so the service layer can
// decide on milestone achievements without re-reading the row.
type ActivityResult struct {
	Streak       model.Streak
	Extended     bool
	Reset        bool
	FreezesSpent int
}

// RecordActivity applies one qualifying study day to the user's streak. The
// row is locked for the duration of the transaction so concurrent calls for
// the same user serialize; the first-ever call races on row creation, which
// an ON CONFLICT DO NOTHING insert plus bounded retry resolves.
func (r *StreakRepository) RecordActivity(userID uint, activityDate time.Time) (*ActivityResult, error) {
	day := util.TruncateToDay(activityDate)

	for attempt := 0; attempt < creationRetries; attempt++ {
		result, err := r.recordActivityOnce(userID, day)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost the creation race to a row that was rolled back; retry.
			continue
		}
		return result, err
	}
	return nil, util.ErrConcurrentUpdate
}

func (r *StreakRepository) recordActivityOnce(userID uint, day time.Time) (*ActivityResult, error) {
	// Ensure the row exists before locking it. DoNothing absorbs the race
	// between concurrent first writers.
	seed := model.Streak{
		UserID:           userID,
		FreezesRemaining: model.DefaultFreezeAllowance,
		FreezeUsedDates:  datatypes.JSON([]byte("[]")),
	}
	if err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var out *ActivityResult
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var streak model.Streak
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&streak).Error; err != nil {
			return err
		}

		res, changed, err := applyActivity(&streak, day)
		if err != nil {
			return err
		}
		out = res
		if !changed {
			return nil
		}
		return tx.Save(&streak).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyActivity mutates the streak in place according to the grace rules:
// same day is a no-op, the next day extends, a longer gap consumes one freeze
// per missed day when enough remain, otherwise all remaining freezes burn and
// the streak restarts at 1.
func applyActivity(streak *model.Streak, day time.Time) (*ActivityResult, bool, error) {
	res := &ActivityResult{}

	if streak.LastStudyDate == nil {
		streak.CurrentStreak = 1
		streak.LastStudyDate = &day
		res.Extended = true
	} else {
		gap := util.DaysBetween(*streak.LastStudyDate, day)
		switch {
		case gap < 0:
			// Backdated activity cannot rewind a streak.
			*res = ActivityResult{Streak: *streak}
			return res, false, nil
		case gap == 0:
			*res = ActivityResult{Streak: *streak}
			return res, false, nil
		case gap == 1:
			streak.CurrentStreak++
			streak.LastStudyDate = &day
			res.Extended = true
		default:
			missed := gap - 1
			if streak.FreezesRemaining >= missed {
				if err := consumeFreezes(streak, missed); err != nil {
					return nil, false, err
				}
				streak.CurrentStreak++
				res.Extended = true
				res.FreezesSpent = missed
			} else {
				res.FreezesSpent = streak.FreezesRemaining
				if err := consumeFreezes(streak, streak.FreezesRemaining); err != nil {
					return nil, false, err
				}
				streak.CurrentStreak = 1
				res.Reset = true
			}
			streak.LastStudyDate = &day
		}
	}

	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}

	res.Streak = *streak
	return res, true, nil
}

// consumeFreezes decrements the allowance and records which missed days were
// covered, oldest first.
func consumeFreezes(streak *model.Streak, n int) error {
	if n == 0 {
		return nil
	}

	var used []string
	if len(streak.FreezeUsedDates) > 0 {
		if err := json.Unmarshal(streak.FreezeUsedDates, &used); err != nil {
			return err
		}
	}

	last := *streak.LastStudyDate
	for i := 1; i <= n; i++ {
		used = append(used, last.AddDate(0, 0, i).Format(util.DateFormat))
	}

	raw, err := json.Marshal(used)
	if err != nil {
		return err
	}
	streak.FreezeUsedDates = datatypes.JSON(raw)
	streak.FreezesRemaining -= n
	return nil
}

func (r *StreakRepository) FindByUserID(userID uint) (*model.Streak, error) {
	var streak model.Streak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

// GrantFreezes tops up the allowance atomically. Used by the external
// scheduler for the monthly refill.
func (r *StreakRepository) GrantFreezes(userID uint, n int) error {
	result := r.DB.Model(&model.Streak{}).
		Where("user_id = ?", userID).
		Update("freezes_remaining", gorm.Expr("freezes_remaining + ?", n))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// TopStreaks returns the current-streak leaderboard.
func (r *StreakRepository) TopStreaks(limit int) ([]model.Streak, error) {
	var streaks []model.Streak
	err := r.DB.Order("current_streak DESC, longest_streak DESC").
		Limit(limit).
		Find(&streaks).Error
	if err != nil {
		return nil, err
	}
	return streaks, nil
}
