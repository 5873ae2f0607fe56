package repository

import (
	"errors"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"
)

func TestRecordUsageFrequency(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewSearchRepository(tx)

	first := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := repo.RecordUsage("myocardial infarction", model.SuggestionMedicalTerm, first); err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if err := repo.RecordUsage("myocardial infarction", model.SuggestionMedicalTerm, first.Add(time.Hour)); err != nil {
		t.Fatalf("RecordUsage replay: %v", err)
	}

	suggestions, err := repo.FindSuggestions("myocardial", 10)
	if err != nil {
		t.Fatalf("FindSuggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("want a single term row, got %d", len(suggestions))
	}
	if suggestions[0].Frequency != 2 {
		t.Fatalf("want frequency 2, got %d", suggestions[0].Frequency)
	}
}

func TestAnonymizeIsStrictOneWay(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	q := testutil.SeedSearchQuery(t, tx, user.ID, "cardiac cycle")

	if err := repo.Anonymize(q.ID, time.Now()); err != nil {
		t.Fatalf("Anonymize: %v", err)
	}

	stored, err := repo.FindQuery(q.ID)
	if err != nil {
		t.Fatalf("FindQuery: %v", err)
	}
	if !stored.IsAnonymized || stored.AnonymizedAt == nil {
		t.Fatal("both anonymization fields must be set together")
	}
	if stored.UserID != nil {
		t.Fatal("user linkage must be dropped")
	}
	if stored.Query != "cardiac cycle" {
		t.Fatal("query text is kept for aggregate statistics")
	}

	if err := repo.Anonymize(q.ID, time.Now()); !errors.Is(err, util.ErrAlreadyAnonymized) {
		t.Fatalf("second anonymize should fail, got %v", err)
	}
}

func TestCreateClickRejectsAnonymizedQuery(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	q := testutil.SeedSearchQuery(t, tx, user.ID, "renal physiology")

	click := &model.SearchClick{QueryID: q.ID, ResultID: "card-1", Position: 0, Similarity: 0.91}
	if err := repo.CreateClick(user.ID, click); err != nil {
		t.Fatalf("CreateClick: %v", err)
	}

	if err := repo.Anonymize(q.ID, time.Now()); err != nil {
		t.Fatalf("Anonymize: %v", err)
	}

	late := &model.SearchClick{QueryID: q.ID, ResultID: "card-2", Position: 1}
	if err := repo.CreateClick(user.ID, late); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("click on anonymized query should be rejected, got %v", err)
	}
}

func TestCreateClickRejectsForeignQuery(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	owner := testutil.SeedUser(t, tx)
	other := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	q := testutil.SeedSearchQuery(t, tx, owner.ID, "hepatic portal system")

	click := &model.SearchClick{QueryID: q.ID, ResultID: "card-1", Position: 0}
	if err := repo.CreateClick(other.ID, click); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("click on another user's query should be rejected, got %v", err)
	}
}

func TestUpsertDailyStats(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	now := time.Now()
	if err := repo.UpsertDailyStats(user.ID, now, "anatomy", 10); err != nil {
		t.Fatalf("UpsertDailyStats: %v", err)
	}
	if err := repo.UpsertDailyStats(user.ID, now, "anatomy", 20); err != nil {
		t.Fatalf("UpsertDailyStats: %v", err)
	}
	if err := repo.RecordDailyClick(user.ID, now, "anatomy"); err != nil {
		t.Fatalf("RecordDailyClick: %v", err)
	}

	rows, err := repo.FindDailyStats(user.ID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("FindDailyStats: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 bucket, got %d", len(rows))
	}
	row := rows[0]
	if row.SearchCount != 2 || row.ClickCount != 1 {
		t.Fatalf("want 2 searches / 1 click, got %d/%d", row.SearchCount, row.ClickCount)
	}
	if row.AvgResultCount != 15 {
		t.Fatalf("clicks must not skew the average, got %f", row.AvgResultCount)
	}
}

func TestRecordDailyClickSeedsEmptyBucket(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	// A result opened from yesterday's query: no search ran today.
	now := time.Now()
	if err := repo.RecordDailyClick(user.ID, now, "anatomy"); err != nil {
		t.Fatalf("RecordDailyClick: %v", err)
	}

	rows, err := repo.FindDailyStats(user.ID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("FindDailyStats: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 bucket, got %d", len(rows))
	}
	row := rows[0]
	if row.SearchCount != 0 || row.ClickCount != 1 {
		t.Fatalf("click-only bucket should count 0 searches / 1 click, got %d/%d", row.SearchCount, row.ClickCount)
	}
	if row.AvgResultCount != 0 {
		t.Fatalf("click-only bucket should not record an average, got %f", row.AvgResultCount)
	}
}

func TestAnonymizeOlderThan(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	old := testutil.SeedSearchQuery(t, tx, user.ID, "old query")
	if err := tx.Model(&model.SearchQuery{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, 0, -120)).Error; err != nil {
		t.Fatalf("backdate query: %v", err)
	}
	fresh := testutil.SeedSearchQuery(t, tx, user.ID, "fresh query")

	scrubbed, err := repo.AnonymizeOlderThan(time.Now().AddDate(0, 0, -90), time.Now())
	if err != nil {
		t.Fatalf("AnonymizeOlderThan: %v", err)
	}
	if scrubbed != 1 {
		t.Fatalf("want 1 scrubbed row, got %d", scrubbed)
	}

	stored, err := repo.FindQuery(fresh.ID)
	if err != nil {
		t.Fatalf("FindQuery: %v", err)
	}
	if stored.IsAnonymized {
		t.Fatal("fresh query must not be scrubbed")
	}
}

func TestSavedSearchesAndAlerts(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewSearchRepository(tx)

	saved := &model.SavedSearch{UserID: user.ID, Name: "cardio", Query: "cardiology high yield"}
	if err := repo.CreateSavedSearch(saved); err != nil {
		t.Fatalf("CreateSavedSearch: %v", err)
	}

	alert := &model.SearchAlert{UserID: user.ID, SavedSearchID: saved.ID, IsActive: true}
	if err := repo.CreateAlert(alert); err != nil {
		t.Fatalf("CreateAlert: %v", err)
	}

	if err := repo.MarkAlertTriggered(alert.ID, user.ID, time.Now()); err != nil {
		t.Fatalf("MarkAlertTriggered: %v", err)
	}
	if err := repo.MarkAlertTriggered(alert.ID, user.ID+1, time.Now()); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("foreign trigger should be rejected, got %v", err)
	}

	alerts, err := repo.FindAlerts(user.ID)
	if err != nil {
		t.Fatalf("FindAlerts: %v", err)
	}
	if len(alerts) != 1 || alerts[0].TriggerCount != 1 || alerts[0].LastTriggered == nil {
		t.Fatalf("trigger bookkeeping wrong: %+v", alerts)
	}
}
