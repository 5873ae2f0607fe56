package util

import (
	"testing"
	"time"

	"americano_backend/internal/model"
)

func TestTruncateToDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2026, 3, 2, 3, 15, 44, 0, loc) // 2026-03-01 18:15 UTC
	got := TruncateToDay(in)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("TruncateToDay(%v) = %v, want %v", in, got, want)
	}
}

func TestBucketStart(t *testing.T) {
	// 2026-03-05 is a Thursday.
	in := time.Date(2026, 3, 5, 13, 0, 0, 0, time.UTC)

	cases := []struct {
		period model.GoalPeriod
		want   time.Time
	}{
		{model.PeriodDaily, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{model.PeriodWeekly, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{model.PeriodMonthly, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := BucketStart(in, c.period); !got.Equal(c.want) {
			t.Fatalf("BucketStart(%s) = %v, want %v", c.period, got, c.want)
		}
	}

	// A Monday is its own week start.
	monday := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if got := BucketStart(monday, model.PeriodWeekly); !got.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Monday week start = %v", got)
	}

	// Sunday belongs to the week started the previous Monday.
	sunday := time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)
	if got := BucketStart(sunday, model.PeriodWeekly); !got.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Sunday week start = %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("reverse DaysBetween = %d, want -3", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("same-day DaysBetween = %d, want 0", got)
	}
}
