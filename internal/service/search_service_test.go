package service

import (
	"errors"
	"testing"

	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/testutil"
	"americano_backend/internal/util"
)

func TestAnonymizeHidesScrubbedQueries(t *testing.T) {
	tx := testutil.Tx(t, testutil.DB(t))
	owner := testutil.SeedUser(t, tx)
	other := testutil.SeedUser(t, tx)
	svc := NewSearchService(repository.NewSearchRepository(tx), nil)

	q := testutil.SeedSearchQuery(t, tx, owner.ID, "cardiac output")

	// Foreign callers learn nothing about the query either way.
	if err := svc.Anonymize(q.ID, other.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("foreign anonymize should be not-found, got %v", err)
	}

	if err := svc.Anonymize(q.ID, owner.ID); err != nil {
		t.Fatalf("Anonymize: %v", err)
	}

	// After the scrub, ownership can no longer be proven by anyone.
	if err := svc.Anonymize(q.ID, owner.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("repeat by former owner should be not-found, got %v", err)
	}
	if err := svc.Anonymize(q.ID, other.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("repeat by foreign caller should be not-found, got %v", err)
	}
}

func TestNormalizeTerm(t *testing.T) {
	if got := normalizeTerm("  Myocardial Infarction "); got != "myocardial infarction" {
		t.Fatalf("normalizeTerm = %q", got)
	}
}

func TestPrefixKey(t *testing.T) {
	if got := prefixKey("nephron"); got != "nep" {
		t.Fatalf("long prefix key = %q", got)
	}
	if got := prefixKey("ne"); got != "ne" {
		t.Fatalf("short prefix key = %q", got)
	}
}

func TestFilterByPrefix(t *testing.T) {
	in := []model.SearchSuggestion{
		{Term: "nephron", Frequency: 9},
		{Term: "neuron", Frequency: 5},
		{Term: "nephritis", Frequency: 3},
	}
	out := filterByPrefix(in, "neph")
	if len(out) != 2 {
		t.Fatalf("want 2 matches, got %d", len(out))
	}
	if out[0].Term != "nephron" || out[1].Term != "nephritis" {
		t.Fatalf("input ordering must be preserved: %+v", out)
	}
}

func TestFilterByPrefixCapsAtLimit(t *testing.T) {
	in := make([]model.SearchSuggestion, 0, suggestionLimit+5)
	for i := 0; i < suggestionLimit+5; i++ {
		in = append(in, model.SearchSuggestion{Term: "anatomy"})
	}
	if out := filterByPrefix(in, "ana"); len(out) != suggestionLimit {
		t.Fatalf("want %d suggestions, got %d", suggestionLimit, len(out))
	}
}
