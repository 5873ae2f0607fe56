package service

import (
	"testing"
	"time"

	"americano_backend/internal/repository"
	"americano_backend/internal/testutil"

	"gorm.io/gorm"
)

func exportServiceFor(tx *gorm.DB) *ExportService {
	return &ExportService{
		StreakRepo:      repository.NewStreakRepository(tx),
		AchievementRepo: repository.NewAchievementRepository(tx),
		GoalRepo:        repository.NewGoalRepository(tx),
		MissionRepo:     repository.NewMissionRepository(tx),
		AnalyticsRepo:   repository.NewMissionAnalyticsRepository(tx),
		BehavioralRepo:  repository.NewBehavioralRepository(tx),
		SearchRepo:      repository.NewSearchRepository(tx),
	}
}

func TestCollectTakeoutWithoutStreak(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	svc := exportServiceFor(tx)

	// A user who never recorded activity still gets a takeout; the streak
	// is just omitted.
	takeout, err := svc.collectTakeout(user.ID)
	if err != nil {
		t.Fatalf("collectTakeout: %v", err)
	}
	if takeout.Streak != nil {
		t.Fatalf("no-activity takeout should omit the streak, got %+v", takeout.Streak)
	}
	if takeout.UserID != user.ID {
		t.Fatalf("takeout owner wrong: %d", takeout.UserID)
	}
}

func TestCollectTakeoutIncludesStreak(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	svc := exportServiceFor(tx)

	streaks := repository.NewStreakRepository(tx)
	if _, err := streaks.RecordActivity(user.ID, time.Now()); err != nil {
		t.Fatalf("seed streak: %v", err)
	}

	takeout, err := svc.collectTakeout(user.ID)
	if err != nil {
		t.Fatalf("collectTakeout: %v", err)
	}
	if takeout.Streak == nil || takeout.Streak.CurrentStreak != 1 {
		t.Fatalf("streak missing from takeout: %+v", takeout.Streak)
	}
}
