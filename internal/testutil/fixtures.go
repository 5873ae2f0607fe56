package testutil

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, tx *gorm.DB) *model.User {
	tb.Helper()
	u := &model.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("user-%d-%d@example.com", time.Now().UnixNano(), rand.Intn(1_000_000)),
		Password: "hashed",
		Role:     "student",
	}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedMission(tb testing.TB, tx *gorm.DB, userID uint, date time.Time) *model.Mission {
	tb.Helper()
	m := &model.Mission{
		UserID: userID,
		Date:   util.TruncateToDay(date),
		Status: model.MissionActive,
		Detail: datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.Create(m).Error; err != nil {
		tb.Fatalf("seed mission: %v", err)
	}
	return m
}

func SeedGoal(tb testing.TB, tx *gorm.DB, userID uint, goalType model.GoalType, target int, start time.Time, period model.GoalPeriod) *model.StudyGoal {
	tb.Helper()
	end := start.AddDate(0, 0, 1)
	switch period {
	case model.PeriodWeekly:
		end = start.AddDate(0, 0, 7)
	case model.PeriodMonthly:
		end = start.AddDate(0, 1, 0)
	}
	g := &model.StudyGoal{
		UserID:      userID,
		GoalType:    goalType,
		TargetValue: target,
		Period:      period,
		StartDate:   start,
		EndDate:     end,
	}
	if err := tx.Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}

func SeedSearchQuery(tb testing.TB, tx *gorm.DB, userID uint, query string) *model.SearchQuery {
	tb.Helper()
	q := &model.SearchQuery{
		UserID:      &userID,
		Query:       query,
		ResultCount: 5,
		Filters:     datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.Create(q).Error; err != nil {
		tb.Fatalf("seed search query: %v", err)
	}
	return q
}
