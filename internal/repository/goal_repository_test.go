package repository

import (
	"errors"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"
)

func TestAdvanceLatchesCompletionOnce(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewGoalRepository(tx)

	start := util.TruncateToDay(time.Now())
	goal := testutil.SeedGoal(t, tx, user.ID, model.GoalCardsReviewed, 10, start, model.PeriodDaily)
	now := start.Add(2 * time.Hour)

	updated, completed, err := repo.Advance(goal.ID, user.ID, 7, now)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if completed {
		t.Fatal("7/10 should not complete the goal")
	}
	if updated.CurrentProgress != 7 {
		t.Fatalf("want progress 7, got %d", updated.CurrentProgress)
	}

	updated, completed, err = repo.Advance(goal.ID, user.ID, 5, now)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !completed || !updated.IsCompleted || updated.CompletedAt == nil {
		t.Fatalf("crossing the target should complete: completed=%v", completed)
	}
	// Progress may overshoot internally; the display value clamps.
	if updated.DisplayProgress() != 10 {
		t.Fatalf("want display progress 10, got %d", updated.DisplayProgress())
	}

	// Further progress on a completed goal is a no-op, not a second completion.
	updated, completed, err = repo.Advance(goal.ID, user.ID, 3, now)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if completed {
		t.Fatal("completion must latch exactly once")
	}
	if updated.CurrentProgress != 12 {
		t.Fatalf("progress advanced after completion: %d", updated.CurrentProgress)
	}
}

func TestAdvanceOutsideWindow(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewGoalRepository(tx)

	start := util.TruncateToDay(time.Now().AddDate(0, 0, -7))
	goal := testutil.SeedGoal(t, tx, user.ID, model.GoalStudyMinutes, 60, start, model.PeriodDaily)

	_, _, err := repo.Advance(goal.ID, user.ID, 30, time.Now())
	if !errors.Is(err, util.ErrGoalExpired) {
		t.Fatalf("want ErrGoalExpired, got %v", err)
	}
}

func TestAdvanceUnknownGoal(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewGoalRepository(tx)

	_, _, err := repo.Advance("00000000-0000-0000-0000-000000000000", user.ID, 1, time.Now())
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFindActiveByTypeFiltersWindowAndCompletion(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewGoalRepository(tx)

	now := time.Now()
	start := util.TruncateToDay(now)
	open := testutil.SeedGoal(t, tx, user.ID, model.GoalMissionsCompleted, 5, start, model.PeriodWeekly)
	testutil.SeedGoal(t, tx, user.ID, model.GoalMissionsCompleted, 5, start.AddDate(0, 0, -30), model.PeriodDaily)
	testutil.SeedGoal(t, tx, user.ID, model.GoalCardsReviewed, 5, start, model.PeriodWeekly)

	active, err := repo.FindActiveByType(user.ID, model.GoalMissionsCompleted, now)
	if err != nil {
		t.Fatalf("FindActiveByType: %v", err)
	}
	if len(active) != 1 || active[0].ID != open.ID {
		t.Fatalf("want only the open mission goal, got %d rows", len(active))
	}
}

func TestDeleteGoal(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewGoalRepository(tx)

	goal := testutil.SeedGoal(t, tx, user.ID, model.GoalQuestionsAnswered, 20, util.TruncateToDay(time.Now()), model.PeriodDaily)

	if err := repo.Delete(goal.ID, user.ID+1); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("deleting another user's goal should be not found, got %v", err)
	}
	if err := repo.Delete(goal.ID, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByIDAndUserID(goal.ID, user.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("goal should be gone, got %v", err)
	}
}
