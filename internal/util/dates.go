package util

import (
	"americano_backend/internal/model"
	"time"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// TruncateToDay normalizes a timestamp to midnight UTC. All bucket keys and
// streak dates are stored this way so same-day comparisons are exact.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BucketStart truncates a timestamp to the start of the given period. Weeks
// start on Monday. The aggregator itself never calls this; it is a convenience
// for API callers that pass raw timestamps.
func BucketStart(t time.Time, period model.GoalPeriod) time.Time {
	day := TruncateToDay(t)
	switch period {
	case model.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case model.PeriodMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// DaysBetween returns the whole-day distance between two day-truncated dates.
func DaysBetween(earlier, later time.Time) int {
	return int(TruncateToDay(later).Sub(TruncateToDay(earlier)).Hours() / 24)
}
