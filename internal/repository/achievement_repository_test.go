package repository

import (
	"testing"

	"americano_backend/internal/model"
	"americano_backend/internal/testutil"
)

func TestGrantIfEligibleIdempotent(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewAchievementRepository(tx)

	granted, err := repo.GrantIfEligible(user.ID, model.AchStreakMilestone, model.TierBronze, map[string]interface{}{"days": 7})
	if err != nil {
		t.Fatalf("GrantIfEligible: %v", err)
	}
	if !granted {
		t.Fatal("first grant should insert")
	}

	granted, err = repo.GrantIfEligible(user.ID, model.AchStreakMilestone, model.TierBronze, map[string]interface{}{"days": 7})
	if err != nil {
		t.Fatalf("GrantIfEligible replay: %v", err)
	}
	if granted {
		t.Fatal("replay must not double-award")
	}

	achievements, err := repo.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if len(achievements) != 1 {
		t.Fatalf("want 1 ledger row, got %d", len(achievements))
	}
}

func TestGrantIfEligibleTiersAreSeparate(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	user := testutil.SeedUser(t, tx)
	repo := NewAchievementRepository(tx)

	for _, tier := range []model.AchievementTier{model.TierBronze, model.TierSilver, model.TierGold} {
		granted, err := repo.GrantIfEligible(user.ID, model.AchStreakMilestone, tier, nil)
		if err != nil {
			t.Fatalf("GrantIfEligible(%s): %v", tier, err)
		}
		if !granted {
			t.Fatalf("tier %s should be a fresh grant", tier)
		}
	}

	achievements, err := repo.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("FindByUserID: %v", err)
	}
	if len(achievements) != 3 {
		t.Fatalf("tier upgrades append, want 3 rows, got %d", len(achievements))
	}
}
