package repository

import (
	"errors"
	"testing"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"
)

func TestFindMissionOwnership(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	owner := testutil.SeedUser(t, tx)
	other := testutil.SeedUser(t, tx)
	repo := NewMissionRepository(tx)

	m := testutil.SeedMission(t, tx, owner.ID, day("2026-03-02"))

	if _, err := repo.FindMission(m.ID, owner.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := repo.FindMission(m.ID, other.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("foreign lookup should miss, got %v", err)
	}
}

func TestRecordCompletionDayExtendsAndResets(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewMissionRepository(tx)

	res, err := repo.RecordCompletionDay(user.ID, day("2026-03-02"))
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if res.Streak.CurrentStreak != 1 || !res.Extended {
		t.Fatalf("first completion should start the streak, got %+v", res)
	}

	res, err = repo.RecordCompletionDay(user.ID, day("2026-03-03"))
	if err != nil {
		t.Fatalf("consecutive completion: %v", err)
	}
	if res.Streak.CurrentStreak != 2 || !res.Extended || res.Reset {
		t.Fatalf("consecutive day should extend, got %+v", res)
	}

	// Same day again is a no-op.
	res, err = repo.RecordCompletionDay(user.ID, day("2026-03-03"))
	if err != nil {
		t.Fatalf("same-day completion: %v", err)
	}
	if res.Streak.CurrentStreak != 2 || res.Extended || res.Reset {
		t.Fatalf("same day should be a no-op, got %+v", res)
	}

	// Mission streaks have no freezes: any gap resets to 1.
	res, err = repo.RecordCompletionDay(user.ID, day("2026-03-06"))
	if err != nil {
		t.Fatalf("gapped completion: %v", err)
	}
	if res.Streak.CurrentStreak != 1 || !res.Reset {
		t.Fatalf("gap should reset the streak, got %+v", res)
	}
	if res.Streak.LongestStreak != 2 {
		t.Fatalf("longest streak must survive the reset, got %d", res.Streak.LongestStreak)
	}
}

func TestCreateReviewOncePerBucket(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewMissionRepository(tx)

	review := &model.MissionReview{
		UserID:    user.ID,
		Period:    model.PeriodWeekly,
		StartDate: day("2026-03-02"),
	}
	if err := repo.CreateReview(review); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	dup := &model.MissionReview{
		UserID:    user.ID,
		Period:    model.PeriodWeekly,
		StartDate: day("2026-03-02"),
	}
	if err := repo.CreateReview(dup); !errors.Is(err, util.ErrReviewExists) {
		t.Fatalf("duplicate bucket should be rejected, got %v", err)
	}

	// Another period over the same start date is a distinct bucket.
	monthly := &model.MissionReview{
		UserID:    user.ID,
		Period:    model.PeriodMonthly,
		StartDate: day("2026-03-02"),
	}
	if err := repo.CreateReview(monthly); err != nil {
		t.Fatalf("distinct period bucket: %v", err)
	}

	reviews, err := repo.FindReviews(user.ID, model.PeriodWeekly, 10)
	if err != nil {
		t.Fatalf("FindReviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("want 1 weekly review, got %d", len(reviews))
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewMissionRepository(tx)

	m := testutil.SeedMission(t, tx, user.ID, day("2026-03-02"))

	fb := &model.MissionFeedback{
		UserID:           user.ID,
		MissionID:        m.ID,
		Helpfulness:      4,
		DifficultyRating: model.RatingJustRight,
		Comment:          "good pacing",
	}
	if err := repo.CreateFeedback(fb); err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}

	list, err := repo.FindFeedbackByMission(m.ID)
	if err != nil {
		t.Fatalf("FindFeedbackByMission: %v", err)
	}
	if len(list) != 1 || list[0].Helpfulness != 4 {
		t.Fatalf("feedback round trip wrong: %+v", list)
	}
}
