package service

import (
	"testing"
	"time"

	"americano_backend/internal/model"
)

func TestPeriodEnd(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		period model.GoalPeriod
		want   time.Time
	}{
		{model.PeriodDaily, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
		{model.PeriodWeekly, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{model.PeriodMonthly, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := periodEnd(start, c.period); !got.Equal(c.want) {
			t.Fatalf("periodEnd(%s) = %v, want %v", c.period, got, c.want)
		}
	}
}

func TestValidGoalType(t *testing.T) {
	if !validGoalType(model.GoalCardsReviewed) {
		t.Fatal("CARDS_REVIEWED must be accepted")
	}
	if validGoalType(model.GoalType("PAGES_READ")) {
		t.Fatal("unknown goal type must be rejected")
	}
}

func TestValidPeriod(t *testing.T) {
	if !validPeriod(model.PeriodWeekly) {
		t.Fatal("WEEKLY must be accepted")
	}
	if validPeriod(model.GoalPeriod("QUARTERLY")) {
		t.Fatal("unknown period must be rejected")
	}
}
