package repository

import (
	"errors"
	"testing"
	"time"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"
)

func TestDeleteCascadeRemovesOwnedRows(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)

	users := NewUserRepository(tx)
	streaks := NewStreakRepository(tx)
	missions := NewMissionRepository(tx)
	search := NewSearchRepository(tx)

	if _, err := streaks.RecordActivity(user.ID, day("2026-03-02")); err != nil {
		t.Fatalf("seed streak: %v", err)
	}
	m := testutil.SeedMission(t, tx, user.ID, day("2026-03-02"))
	fb := &model.MissionFeedback{
		UserID:           user.ID,
		MissionID:        m.ID,
		Helpfulness:      5,
		DifficultyRating: model.RatingJustRight,
	}
	if err := missions.CreateFeedback(fb); err != nil {
		t.Fatalf("seed feedback: %v", err)
	}
	q := testutil.SeedSearchQuery(t, tx, user.ID, "nephron")
	click := &model.SearchClick{QueryID: q.ID, ResultID: "card-1", Position: 0}
	if err := search.CreateClick(user.ID, click); err != nil {
		t.Fatalf("seed click: %v", err)
	}

	if err := users.DeleteCascade(user.ID); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}

	if _, err := users.FindByID(user.ID); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("user should be gone, got %v", err)
	}

	var count int64
	for _, probe := range []struct {
		name   string
		model  interface{}
		column string
	}{
		{"streaks", &model.Streak{}, "user_id"},
		{"missions", &model.Mission{}, "user_id"},
		{"feedback", &model.MissionFeedback{}, "user_id"},
		{"queries", &model.SearchQuery{}, "user_id"},
		{"clicks", &model.SearchClick{}, "query_id"},
	} {
		value := interface{}(user.ID)
		if probe.column == "query_id" {
			value = q.ID
		}
		if err := tx.Model(probe.model).Where(probe.column+" = ?", value).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", probe.name, err)
		}
		if count != 0 {
			t.Fatalf("%s rows survived the cascade", probe.name)
		}
	}
}

func TestDeleteCascadeKeepsAnonymizedQueries(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)

	users := NewUserRepository(tx)
	search := NewSearchRepository(tx)

	q := testutil.SeedSearchQuery(t, tx, user.ID, "aggregate history")
	if err := search.Anonymize(q.ID, time.Now()); err != nil {
		t.Fatalf("Anonymize: %v", err)
	}

	if err := users.DeleteCascade(user.ID); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}

	// The anonymized row no longer links to the user, so it stays for
	// aggregate statistics.
	stored, err := search.FindQuery(q.ID)
	if err != nil {
		t.Fatalf("FindQuery: %v", err)
	}
	if stored.UserID != nil || !stored.IsAnonymized {
		t.Fatalf("anonymized query changed unexpectedly: %+v", stored)
	}
}

func TestDeleteCascadeUnknownUser(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	users := NewUserRepository(tx)

	if err := users.DeleteCascade(999999999); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
