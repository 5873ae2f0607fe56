package repository

import (
	"math"
	"sync"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"
)

func TestUpsertRollupOnlineAverage(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewMissionAnalyticsRepository(tx)

	bucket := util.TruncateToDay(time.Now())
	durations := []float64{10, 20, 30, 60}
	accuracies := []float64{0.5, 0.7, 0.9, 0.9}

	for i := range durations {
		err := repo.UpsertRollup(user.ID, bucket, model.PeriodDaily, RollupDelta{
			Completed:           true,
			ObjectivesCompleted: 2,
			DurationMinutes:     durations[i],
			Accuracy:            accuracies[i],
		})
		if err != nil {
			t.Fatalf("UpsertRollup: %v", err)
		}
	}

	row, err := repo.FindBucket(user.ID, bucket, model.PeriodDaily)
	if err != nil {
		t.Fatalf("FindBucket: %v", err)
	}
	if row.CompletedCount != 4 {
		t.Fatalf("want 4 completions, got %d", row.CompletedCount)
	}
	if row.ObjectivesCompleted != 8 {
		t.Fatalf("want 8 objectives, got %d", row.ObjectivesCompleted)
	}
	if math.Abs(row.AvgDurationMinutes-30) > 1e-9 {
		t.Fatalf("want avg duration 30, got %f", row.AvgDurationMinutes)
	}
	if math.Abs(row.AvgAccuracy-0.75) > 1e-9 {
		t.Fatalf("want avg accuracy 0.75, got %f", row.AvgAccuracy)
	}
}

func TestUpsertRollupSkipsDoNotTouchAverages(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewMissionAnalyticsRepository(tx)

	bucket := util.TruncateToDay(time.Now())
	if err := repo.UpsertRollup(user.ID, bucket, model.PeriodDaily, RollupDelta{
		Completed:       true,
		DurationMinutes: 45,
		Accuracy:        0.8,
	}); err != nil {
		t.Fatalf("UpsertRollup: %v", err)
	}
	if err := repo.UpsertRollup(user.ID, bucket, model.PeriodDaily, RollupDelta{Skipped: true}); err != nil {
		t.Fatalf("UpsertRollup skip: %v", err)
	}

	row, err := repo.FindBucket(user.ID, bucket, model.PeriodDaily)
	if err != nil {
		t.Fatalf("FindBucket: %v", err)
	}
	if row.CompletedCount != 1 || row.SkippedCount != 1 {
		t.Fatalf("want 1 completed / 1 skipped, got %d/%d", row.CompletedCount, row.SkippedCount)
	}
	if math.Abs(row.AvgDurationMinutes-45) > 1e-9 {
		t.Fatalf("skip changed the duration average: %f", row.AvgDurationMinutes)
	}
}

func TestUpsertRollupSeparateBuckets(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewMissionAnalyticsRepository(tx)

	dayBucket := util.TruncateToDay(time.Now())
	weekBucket := util.BucketStart(time.Now(), model.PeriodWeekly)
	delta := RollupDelta{Completed: true, DurationMinutes: 20, Accuracy: 0.6}

	if err := repo.UpsertRollup(user.ID, dayBucket, model.PeriodDaily, delta); err != nil {
		t.Fatalf("daily upsert: %v", err)
	}
	if err := repo.UpsertRollup(user.ID, weekBucket, model.PeriodWeekly, delta); err != nil {
		t.Fatalf("weekly upsert: %v", err)
	}

	rows, err := repo.FindRange(user.ID, model.PeriodWeekly, weekBucket, weekBucket.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("FindRange: %v", err)
	}
	if len(rows) != 1 || rows[0].CompletedCount != 1 {
		t.Fatalf("weekly bucket not isolated: %d rows", len(rows))
	}
}

// Concurrent writers must serialize on the bucket row so the count and the
// running mean come out exact. This one needs real connections, so it commits
// and cleans up after itself.
func TestUpsertRollupConcurrent(t *testing.T) {
	db := testutil.DB(t)
	user := testutil.SeedUser(t, db)
	repo := NewMissionAnalyticsRepository(db)
	bucket := util.TruncateToDay(time.Now())

	t.Cleanup(func() {
		db.Where("user_id = ?", user.ID).Delete(&model.MissionAnalytics{})
		db.Unscoped().Where("id = ?", user.ID).Delete(&model.User{})
	})

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- repo.UpsertRollup(user.ID, bucket, model.PeriodDaily, RollupDelta{
				Completed:       true,
				DurationMinutes: float64(n + 1),
				Accuracy:        0.5,
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent UpsertRollup: %v", err)
		}
	}

	row, err := repo.FindBucket(user.ID, bucket, model.PeriodDaily)
	if err != nil {
		t.Fatalf("FindBucket: %v", err)
	}
	if row.CompletedCount != writers {
		t.Fatalf("lost updates: want %d completions, got %d", writers, row.CompletedCount)
	}
	// Mean of 1..16 is 8.5 regardless of arrival order.
	if math.Abs(row.AvgDurationMinutes-8.5) > 1e-6 {
		t.Fatalf("want avg duration 8.5, got %f", row.AvgDurationMinutes)
	}
}
