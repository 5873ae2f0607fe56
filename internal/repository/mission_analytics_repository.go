package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MissionAnalyticsRepository struct {
	DB *gorm.DB
}

func NewMissionAnalyticsRepository(db *gorm.DB) *MissionAnalyticsRepository {
	return &MissionAnalyticsRepository{DB: db}
}

// RollupDelta is one data point contributed to a bucket. A completed mission
// carries its duration/accuracy sample; a skipped one only bumps the skip
// counter.
type RollupDelta struct {
	Completed           bool
	Skipped             bool
	ObjectivesCompleted int
	DurationMinutes     float64
	Accuracy            float64
}

// UpsertRollup merges the delta into the (user, date, period) bucket in a
// single INSERT ... ON CONFLICT DO UPDATE statement. Averages fold the new
// sample in with the count-weighted online formula, evaluated entirely in SQL
// against the pre-update row, so N concurrent callers produce count=N and the
// exact mean regardless of interleaving. The date is treated as an opaque
// bucket key; callers truncate it to the period start.
func (r *MissionAnalyticsRepository) UpsertRollup(userID uint, date time.Time, period model.GoalPeriod, delta RollupDelta) error {
	row := model.MissionAnalytics{
		UserID:              userID,
		Date:                util.TruncateToDay(date),
		Period:              period,
		ObjectivesCompleted: delta.ObjectivesCompleted,
	}

	assignments := map[string]interface{}{
		"objectives_completed": gorm.Expr("mission_analytics.objectives_completed + EXCLUDED.objectives_completed"),
		"updated_at":           time.Now(),
	}

	if delta.Completed {
		row.CompletedCount = 1
		row.AvgDurationMinutes = delta.DurationMinutes
		row.AvgAccuracy = delta.Accuracy
		assignments["completed_count"] = gorm.Expr("mission_analytics.completed_count + 1")
		assignments["avg_duration_minutes"] = gorm.Expr(
			"mission_analytics.avg_duration_minutes + (EXCLUDED.avg_duration_minutes - mission_analytics.avg_duration_minutes) / (mission_analytics.completed_count + 1)")
		assignments["avg_accuracy"] = gorm.Expr(
			"mission_analytics.avg_accuracy + (EXCLUDED.avg_accuracy - mission_analytics.avg_accuracy) / (mission_analytics.completed_count + 1)")
	}
	if delta.Skipped {
		row.SkippedCount = 1
		assignments["skipped_count"] = gorm.Expr("mission_analytics.skipped_count + 1")
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "period"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&row).Error
}

func (r *MissionAnalyticsRepository) FindBucket(userID uint, date time.Time, period model.GoalPeriod) (*model.MissionAnalytics, error) {
	var row model.MissionAnalytics
	err := r.DB.Where("user_id = ? AND date = ? AND period = ?", userID, util.TruncateToDay(date), period).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *MissionAnalyticsRepository) FindRange(userID uint, period model.GoalPeriod, from, to time.Time) ([]model.MissionAnalytics, error) {
	var rows []model.MissionAnalytics
	err := r.DB.Where("user_id = ? AND period = ? AND date >= ? AND date < ?",
		userID, period, util.TruncateToDay(from), util.TruncateToDay(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
