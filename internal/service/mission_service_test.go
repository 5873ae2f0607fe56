package service

import (
	"errors"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"

	"gorm.io/gorm"
)

func missionServiceFor(tx *gorm.DB) *MissionService {
	goalService := NewGoalService(
		repository.NewGoalRepository(tx),
		repository.NewAchievementRepository(tx),
	)
	return NewMissionService(
		repository.NewMissionRepository(tx),
		repository.NewMissionAnalyticsRepository(tx),
		repository.NewAchievementRepository(tx),
		goalService,
	)
}

func TestCompleteMissionPipeline(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	svc := missionServiceFor(tx)

	now := time.Now()
	mission := testutil.SeedMission(t, tx, user.ID, util.TruncateToDay(now))
	goal := testutil.SeedGoal(t, tx, user.ID, model.GoalMissionsCompleted, 3, util.TruncateToDay(now), model.PeriodDaily)

	outcome, err := svc.CompleteMission(mission.ID, user.ID, CompleteMissionRequest{
		Helpfulness:         4,
		DifficultyRating:    model.RatingJustRight,
		ObjectivesCompleted: 3,
		DurationMinutes:     25,
		Accuracy:            0.8,
	})
	if err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}

	if outcome.Feedback.Helpfulness != 4 {
		t.Fatalf("feedback not recorded: %+v", outcome.Feedback)
	}
	if outcome.MissionStreak.CurrentStreak != 1 {
		t.Fatalf("streak should start at 1, got %d", outcome.MissionStreak.CurrentStreak)
	}
	if len(outcome.GoalsAdvanced) != 1 || outcome.GoalsAdvanced[0].ID != goal.ID {
		t.Fatalf("goal advance missing: %+v", outcome.GoalsAdvanced)
	}
	if outcome.GoalsAdvanced[0].CurrentProgress != 1 {
		t.Fatalf("goal should advance by exactly 1, got %d", outcome.GoalsAdvanced[0].CurrentProgress)
	}

	// One completion lands in all three rollup buckets.
	analytics := repository.NewMissionAnalyticsRepository(tx)
	for _, period := range []model.GoalPeriod{model.PeriodDaily, model.PeriodWeekly, model.PeriodMonthly} {
		bucket, err := analytics.FindBucket(user.ID, util.BucketStart(now, period), period)
		if err != nil {
			t.Fatalf("FindBucket(%s): %v", period, err)
		}
		if bucket.CompletedCount != 1 || bucket.AvgDurationMinutes != 25 || bucket.AvgAccuracy != 0.8 {
			t.Fatalf("%s rollup wrong: %+v", period, bucket)
		}
	}
}

func TestCompleteMissionValidation(t *testing.T) {
	svc := &MissionService{}

	cases := []CompleteMissionRequest{
		{Helpfulness: 0, DifficultyRating: model.RatingJustRight},
		{Helpfulness: 6, DifficultyRating: model.RatingJustRight},
		{Helpfulness: 3, DifficultyRating: "IMPOSSIBLE"},
		{Helpfulness: 3, DifficultyRating: model.RatingJustRight, Accuracy: 1.2},
		{Helpfulness: 3, DifficultyRating: model.RatingJustRight, DurationMinutes: -1},
	}
	for i, req := range cases {
		if _, err := svc.CompleteMission("any", 1, req); !errors.Is(err, util.ErrInvariantViolation) {
			t.Fatalf("case %d: want ErrInvariantViolation, got %v", i, err)
		}
	}
}

func TestSkipMissionTouchesRollupsOnly(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	svc := missionServiceFor(tx)

	now := time.Now()
	mission := testutil.SeedMission(t, tx, user.ID, util.TruncateToDay(now))

	if err := svc.SkipMission(mission.ID, user.ID); err != nil {
		t.Fatalf("SkipMission: %v", err)
	}

	analytics := repository.NewMissionAnalyticsRepository(tx)
	bucket, err := analytics.FindBucket(user.ID, util.BucketStart(now, model.PeriodDaily), model.PeriodDaily)
	if err != nil {
		t.Fatalf("FindBucket: %v", err)
	}
	if bucket.SkippedCount != 1 || bucket.CompletedCount != 0 {
		t.Fatalf("skip rollup wrong: %+v", bucket)
	}

	streaks := repository.NewMissionRepository(tx)
	if _, err := streaks.FindStreak(user.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("skip must not create a streak row, got %v", err)
	}
}
