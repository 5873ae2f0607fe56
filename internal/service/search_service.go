package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/util"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/datatypes"
)

const (
	suggestionCachePrefix = "search:suggest:"
	suggestionCacheTTL    = 10 * time.Minute
	suggestionLimit       = 10
)

type SearchService struct {
	SearchRepo *repository.SearchRepository
	Redis      *redis.Client
}

func NewSearchService(searchRepo *repository.SearchRepository, rdb *redis.Client) *SearchService {
	return &SearchService{
		SearchRepo: searchRepo,
		Redis:      rdb,
	}
}

type LogSearchRequest struct {
	Query         string         `json:"query" binding:"required"`
	ResultCount   int            `json:"resultCount"`
	TopSimilarity float64        `json:"topSimilarity"`
	Filters       datatypes.JSON `json:"filters"`
}

// LogSearch records one executed query: the raw log row, the per-day stats
// bucket, and the suggestion frequency for the normalized term.
func (s *SearchService) LogSearch(ctx context.Context, userID uint, req LogSearchRequest) (*model.SearchQuery, error) {
	if req.ResultCount < 0 {
		return nil, util.ErrInvariantViolation
	}
	if req.TopSimilarity < 0 || req.TopSimilarity > 1 {
		return nil, util.ErrInvariantViolation
	}

	query := &model.SearchQuery{
		UserID:        &userID,
		Query:         req.Query,
		ResultCount:   req.ResultCount,
		TopSimilarity: req.TopSimilarity,
		Filters:       jsonOrDefault(req.Filters, "{}"),
	}
	if err := s.SearchRepo.CreateQuery(query); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.SearchRepo.UpsertDailyStats(userID, now, req.Query, req.ResultCount); err != nil {
		return nil, err
	}

	term := normalizeTerm(req.Query)
	if term != "" {
		if err := s.SearchRepo.RecordUsage(term, model.SuggestionRecentQuery, now); err != nil {
			return nil, err
		}
		// The cached suggestion list for this prefix is stale now.
		s.Redis.Del(ctx, suggestionCachePrefix+prefixKey(term))
	}

	return query, nil
}

type RecordClickRequest struct {
	ResultID   string  `json:"resultId" binding:"required"`
	Position   int     `json:"position"`
	Similarity float64 `json:"similarity"`
}

func (s *SearchService) RecordClick(queryID string, userID uint, req RecordClickRequest) (*model.SearchClick, error) {
	if req.Position < 0 {
		return nil, util.ErrInvariantViolation
	}

	click := &model.SearchClick{
		QueryID:    queryID,
		ResultID:   req.ResultID,
		Position:   req.Position,
		Similarity: req.Similarity,
	}
	if err := s.SearchRepo.CreateClick(userID, click); err != nil {
		return nil, err
	}

	query, err := s.SearchRepo.FindQuery(queryID)
	if err != nil {
		return nil, err
	}
	if err := s.SearchRepo.RecordDailyClick(userID, time.Now(), query.Query); err != nil {
		return nil, err
	}
	return click, nil
}

// Anonymize scrubs a single query log row. The operation is one-way and
// strict: scrubbing an already-scrubbed row is an error, not a no-op. A
// scrubbed row no longer carries its owner, so callers who cannot prove
// ownership get not-found, never a hint that the query exists.
func (s *SearchService) Anonymize(queryID string, userID uint) error {
	query, err := s.SearchRepo.FindQuery(queryID)
	if err != nil {
		return err
	}
	if query.UserID == nil || *query.UserID != userID {
		return util.ErrNotFound
	}
	return s.SearchRepo.Anonymize(queryID, time.Now())
}

// GetSuggestions serves prefix autocomplete from a Redis cache in front of
// the frequency table.
func (s *SearchService) GetSuggestions(ctx context.Context, prefix string) ([]model.SearchSuggestion, error) {
	prefix = normalizeTerm(prefix)
	if prefix == "" {
		return []model.SearchSuggestion{}, nil
	}

	cacheKey := suggestionCachePrefix + prefixKey(prefix)
	val, err := s.Redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var cached []model.SearchSuggestion
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return filterByPrefix(cached, prefix), nil
		}
	} else if err != redis.Nil {
		return nil, err
	}

	suggestions, err := s.SearchRepo.FindSuggestions(prefixKey(prefix), 50)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(suggestions); err == nil {
		s.Redis.Set(ctx, cacheKey, payload, suggestionCacheTTL)
	}
	return filterByPrefix(suggestions, prefix), nil
}

// SeedSuggestion lets staff preload curated terms, e.g. the medical glossary.
func (s *SearchService) SeedSuggestion(term string, suggestionType model.SuggestionType) error {
	term = normalizeTerm(term)
	if term == "" || !validSuggestionType(suggestionType) {
		return util.ErrInvariantViolation
	}
	return s.SearchRepo.RecordUsage(term, suggestionType, time.Now())
}

type SavedSearchRequest struct {
	Name    string         `json:"name" binding:"required"`
	Query   string         `json:"query" binding:"required"`
	Filters datatypes.JSON `json:"filters"`
}

func (s *SearchService) CreateSavedSearch(userID uint, req SavedSearchRequest) (*model.SavedSearch, error) {
	saved := &model.SavedSearch{
		UserID:  userID,
		Name:    req.Name,
		Query:   req.Query,
		Filters: jsonOrDefault(req.Filters, "{}"),
	}
	if err := s.SearchRepo.CreateSavedSearch(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SearchService) GetSavedSearches(userID uint) ([]model.SavedSearch, error) {
	return s.SearchRepo.FindSavedSearches(userID)
}

func (s *SearchService) CreateAlert(userID uint, savedSearchID string) (*model.SearchAlert, error) {
	alert := &model.SearchAlert{
		UserID:        userID,
		SavedSearchID: savedSearchID,
		IsActive:      true,
	}
	if err := s.SearchRepo.CreateAlert(alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *SearchService) GetAlerts(userID uint) ([]model.SearchAlert, error) {
	return s.SearchRepo.FindAlerts(userID)
}

func (s *SearchService) TriggerAlert(alertID string, userID uint) error {
	return s.SearchRepo.MarkAlertTriggered(alertID, userID, time.Now())
}

func (s *SearchService) GetDailyStats(userID uint, from, to time.Time) ([]model.SearchAnalytics, error) {
	return s.SearchRepo.FindDailyStats(userID, from, to)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// prefixKey buckets cache entries by the first three characters so one
// invalidation covers every longer prefix it serves.
func prefixKey(term string) string {
	if len(term) > 3 {
		return term[:3]
	}
	return term
}

func filterByPrefix(suggestions []model.SearchSuggestion, prefix string) []model.SearchSuggestion {
	out := make([]model.SearchSuggestion, 0, suggestionLimit)
	for _, sg := range suggestions {
		if strings.HasPrefix(sg.Term, prefix) {
			out = append(out, sg)
			if len(out) == suggestionLimit {
				break
			}
		}
	}
	return out
}

func validSuggestionType(t model.SuggestionType) bool {
	switch t {
	case model.SuggestionMedicalTerm, model.SuggestionTopic, model.SuggestionRecentQuery:
		return true
	}
	return false
}
