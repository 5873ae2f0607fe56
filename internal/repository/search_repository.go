package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SearchRepository struct {
	DB *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{DB: db}
}

func (r *SearchRepository) CreateQuery(query *model.SearchQuery) error {
	return r.DB.Create(query).Error
}

func (r *SearchRepository) FindQuery(queryID string) (*model.SearchQuery, error) {
	var query model.SearchQuery
	err := r.DB.Where("id = ?", queryID).First(&query).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &query, nil
}

// CreateClick appends a click-through after verifying the parent query
// exists, belongs to the clicking user, and has not been anonymized. The
// check and the insert share a transaction so an interleaved anonymization
// cannot slip a click onto a scrubbed query.
func (r *SearchRepository) CreateClick(userID uint, click *model.SearchClick) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var query model.SearchQuery
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", click.QueryID).
			First(&query).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		if err != nil {
			return err
		}

		if query.IsAnonymized || query.UserID == nil || *query.UserID != userID {
			return util.ErrNotFound
		}

		return tx.Create(click).Error
	})
}

// Anonymize performs the one-way scrub: flags set together, user linkage
// dropped. A second call is an error under the strict policy.
func (r *SearchRepository) Anonymize(queryID string, at time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var query model.SearchQuery
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", queryID).
			First(&query).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		if err != nil {
			return err
		}

		if query.IsAnonymized {
			return util.ErrAlreadyAnonymized
		}

		return tx.Model(&query).Updates(map[string]interface{}{
			"is_anonymized": true,
			"anonymized_at": at,
			"user_id":       nil,
		}).Error
	})
}

// AnonymizeOlderThan scrubs every not-yet-anonymized query created before the
// cutoff. Used by the retention script; returns the number of rows touched.
func (r *SearchRepository) AnonymizeOlderThan(cutoff time.Time, at time.Time) (int64, error) {
	result := r.DB.Model(&model.SearchQuery{}).
		Where("is_anonymized = false AND created_at < ?", cutoff).
		Updates(map[string]interface{}{
			"is_anonymized": true,
			"anonymized_at": at,
			"user_id":       nil,
		})
	return result.RowsAffected, result.Error
}

// RecordUsage bumps the term-frequency cache. The term is the sole natural
// key: first use inserts, every later use increments frequency and refreshes
// recency in one conflict-handled statement.
func (r *SearchRepository) RecordUsage(term string, suggestionType model.SuggestionType, at time.Time) error {
	suggestion := model.SearchSuggestion{
		Term:      term,
		Type:      suggestionType,
		Frequency: 1,
		LastUsed:  at,
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "term"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"frequency":  gorm.Expr("search_suggestions.frequency + 1"),
			"last_used":  at,
			"updated_at": at,
		}),
	}).Create(&suggestion).Error
}

func (r *SearchRepository) FindSuggestions(prefix string, limit int) ([]model.SearchSuggestion, error) {
	var suggestions []model.SearchSuggestion
	err := r.DB.Where("term LIKE ?", prefix+"%").
		Order("frequency DESC, last_used DESC").
		Limit(limit).
		Find(&suggestions).Error
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// UpsertDailyStats merges one search execution into the (user, date, query)
// rollup, folding the result count into the running average in SQL.
func (r *SearchRepository) UpsertDailyStats(userID uint, date time.Time, query string, resultCount int) error {
	row := model.SearchAnalytics{
		UserID:         userID,
		Date:           util.TruncateToDay(date),
		Query:          query,
		SearchCount:    1,
		AvgResultCount: float64(resultCount),
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "query"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count": gorm.Expr("search_analytics.search_count + 1"),
			"avg_result_count": gorm.Expr(
				"search_analytics.avg_result_count + (EXCLUDED.avg_result_count - search_analytics.avg_result_count) / (search_analytics.search_count + 1)"),
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

// RecordDailyClick bumps only the click counter for the (user, date, query)
// bucket. A click is not a search: the search count and the result-count
// average stay untouched, and a click landing on a day with no bucket yet
// (a result opened from an older query) seeds one with zero searches.
func (r *SearchRepository) RecordDailyClick(userID uint, date time.Time, query string) error {
	row := model.SearchAnalytics{
		UserID:     userID,
		Date:       util.TruncateToDay(date),
		Query:      query,
		ClickCount: 1,
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "query"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"click_count": gorm.Expr("search_analytics.click_count + 1"),
			"updated_at":  time.Now(),
		}),
	}).Create(&row).Error
}

func (r *SearchRepository) CreateSavedSearch(saved *model.SavedSearch) error {
	return r.DB.Create(saved).Error
}

func (r *SearchRepository) FindSavedSearches(userID uint) ([]model.SavedSearch, error) {
	var saved []model.SavedSearch
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *SearchRepository) CreateAlert(alert *model.SearchAlert) error {
	return r.DB.Create(alert).Error
}

// MarkAlertTriggered bumps the trigger bookkeeping atomically.
func (r *SearchRepository) MarkAlertTriggered(alertID string, userID uint, at time.Time) error {
	result := r.DB.Model(&model.SearchAlert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Updates(map[string]interface{}{
			"trigger_count":  gorm.Expr("trigger_count + 1"),
			"last_triggered": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *SearchRepository) FindAlerts(userID uint) ([]model.SearchAlert, error) {
	var alerts []model.SearchAlert
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *SearchRepository) FindDailyStats(userID uint, from, to time.Time) ([]model.SearchAnalytics, error) {
	var rows []model.SearchAnalytics
	err := r.DB.Where("user_id = ? AND date >= ? AND date < ?",
		userID, util.TruncateToDay(from), util.TruncateToDay(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
