package repository

import (
	"errors"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"

	"gorm.io/datatypes"
)

func day(s string) time.Time {
	t, err := time.Parse(util.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func freshStreak() *model.Streak {
	return &model.Streak{
		UserID:           1,
		FreezesRemaining: model.DefaultFreezeAllowance,
		FreezeUsedDates:  datatypes.JSON([]byte("[]")),
	}
}

func TestApplyActivityFirstDay(t *testing.T) {
	streak := freshStreak()

	res, changed, err := applyActivity(streak, day("2026-03-02"))
	if err != nil {
		t.Fatalf("applyActivity: %v", err)
	}
	if !changed || !res.Extended {
		t.Fatalf("first activity should extend, got changed=%v extended=%v", changed, res.Extended)
	}
	if streak.CurrentStreak != 1 || streak.LongestStreak != 1 {
		t.Fatalf("want streak 1/1, got %d/%d", streak.CurrentStreak, streak.LongestStreak)
	}
}

func TestApplyActivitySameDayNoOp(t *testing.T) {
	streak := freshStreak()
	if _, _, err := applyActivity(streak, day("2026-03-02")); err != nil {
		t.Fatalf("applyActivity: %v", err)
	}

	res, changed, err := applyActivity(streak, day("2026-03-02"))
	if err != nil {
		t.Fatalf("applyActivity: %v", err)
	}
	if changed || res.Extended || res.Reset {
		t.Fatalf("same-day replay should be a no-op, got changed=%v", changed)
	}
	if streak.CurrentStreak != 1 {
		t.Fatalf("want streak 1, got %d", streak.CurrentStreak)
	}
}

func TestApplyActivityBackdatedNoOp(t *testing.T) {
	streak := freshStreak()
	if _, _, err := applyActivity(streak, day("2026-03-05")); err != nil {
		t.Fatalf("applyActivity: %v", err)
	}

	_, changed, err := applyActivity(streak, day("2026-03-01"))
	if err != nil {
		t.Fatalf("applyActivity: %v", err)
	}
	if changed {
		t.Fatal("backdated activity must not rewind the streak")
	}
	if got := streak.LastStudyDate.Format(util.DateFormat); got != "2026-03-05" {
		t.Fatalf("last study date moved to %s", got)
	}
}

func TestApplyActivityConsecutiveDaysExtend(t *testing.T) {
	streak := freshStreak()
	for _, d := range []string{"2026-03-02", "2026-03-03", "2026-03-04"} {
		if _, _, err := applyActivity(streak, day(d)); err != nil {
			t.Fatalf("applyActivity(%s): %v", d, err)
		}
	}
	if streak.CurrentStreak != 3 || streak.LongestStreak != 3 {
		t.Fatalf("want streak 3/3, got %d/%d", streak.CurrentStreak, streak.LongestStreak)
	}
	if streak.FreezesRemaining != model.DefaultFreezeAllowance {
		t.Fatalf("no freezes should be spent, got %d", streak.FreezesRemaining)
	}
}

func TestApplyActivityGapCoveredByFreezes(t *testing.T) {
	streak := freshStreak()
	if _, _, err := applyActivity(streak, day("2026-03-02")); err != nil {
		t.Fatalf("applyActivity: %v", err)
	}

	// Two missed days, three freezes available.
	res, _, err := applyActivity(streak, day("2026-03-05"))
	if err != nil {
		t.Fatalf("applyActivity: %v", err)
	}
	if !res.Extended || res.Reset {
		t.Fatalf("covered gap should extend, got extended=%v reset=%v", res.Extended, res.Reset)
	}
	if res.FreezesSpent != 2 {
		t.Fatalf("want 2 freezes spent, got %d", res.FreezesSpent)
	}
	if streak.CurrentStreak != 2 {
		t.Fatalf("want streak 2, got %d", streak.CurrentStreak)
	}
	if streak.FreezesRemaining != model.DefaultFreezeAllowance-2 {
		t.Fatalf("want %d freezes remaining, got %d", model.DefaultFreezeAllowance-2, streak.FreezesRemaining)
	}
}

func TestApplyActivityGapBurnsAllFreezesAndResets(t *testing.T) {
	streak := freshStreak()
	streak.FreezesRemaining = 1
	if _, _, err := applyActivity(streak, day("2026-03-02")); err != nil {
		t.Fatalf("applyActivity: %v", err)
	}
	streak.CurrentStreak = 10
	streak.LongestStreak = 10

	// Two missed days but only one freeze: all remaining burn, streak restarts.
	res, _, err := applyActivity(streak, day("2026-03-05"))
	if err != nil {
		t.Fatalf("applyActivity: %v", err)
	}
	if !res.Reset || res.Extended {
		t.Fatalf("uncovered gap should reset, got extended=%v reset=%v", res.Extended, res.Reset)
	}
	if res.FreezesSpent != 1 {
		t.Fatalf("want 1 freeze spent, got %d", res.FreezesSpent)
	}
	if streak.CurrentStreak != 1 {
		t.Fatalf("want streak 1 after reset, got %d", streak.CurrentStreak)
	}
	if streak.FreezesRemaining != 0 {
		t.Fatalf("want 0 freezes remaining, got %d", streak.FreezesRemaining)
	}
	if streak.LongestStreak != 10 {
		t.Fatalf("longest streak must survive a reset, got %d", streak.LongestStreak)
	}
}

func TestRecordActivityRoundTrip(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewStreakRepository(tx)

	res, err := repo.RecordActivity(user.ID, day("2026-03-02"))
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if res.Streak.CurrentStreak != 1 {
		t.Fatalf("want streak 1, got %d", res.Streak.CurrentStreak)
	}

	res, err = repo.RecordActivity(user.ID, day("2026-03-03"))
	if err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if res.Streak.CurrentStreak != 2 || !res.Extended {
		t.Fatalf("want extended streak 2, got %d extended=%v", res.Streak.CurrentStreak, res.Extended)
	}

	stored, err := repo.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if stored.CurrentStreak != 2 {
		t.Fatalf("persisted streak mismatch: %d", stored.CurrentStreak)
	}
}

func TestGrantFreezes(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewStreakRepository(tx)

	if err := repo.GrantFreezes(user.ID, 2); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("granting before any activity should be not found, got %v", err)
	}

	if _, err := repo.RecordActivity(user.ID, day("2026-03-02")); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if err := repo.GrantFreezes(user.ID, 2); err != nil {
		t.Fatalf("GrantFreezes: %v", err)
	}

	streak, err := repo.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if streak.FreezesRemaining != model.DefaultFreezeAllowance+2 {
		t.Fatalf("want %d freezes, got %d", model.DefaultFreezeAllowance+2, streak.FreezesRemaining)
	}
}
