package model

import (
	"time"

	"gorm.io/datatypes"
)

// SearchQuery logs one semantic search execution. Anonymization is a one-way
// transition: both flags are set together and the user linkage is dropped.
// swagger:model SearchQuery
type SearchQuery struct {
	UUIDBase
	UserID        *uint          `gorm:"index" json:"userId"`
	Query         string         `gorm:"size:500;not null" json:"query"`
	ResultCount   int            `gorm:"not null;default:0" json:"resultCount"`
	TopSimilarity float64        `gorm:"not null;default:0" json:"topSimilarity"`
	Filters       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"filters"`
	IsAnonymized  bool           `gorm:"not null;default:false" json:"isAnonymized"`
	AnonymizedAt  *time.Time     `json:"anonymizedAt"`
}

func (SearchQuery) TableName() string {
	return "search_queries"
}

// SearchClick records a click-through on a result. It must reference an
// existing query that was not anonymized at write time, and cascades with it.
// swagger:model SearchClick
type SearchClick struct {
	UUIDBase
	QueryID    string      `gorm:"type:varchar(36);index;not null" json:"queryId"`
	Query      SearchQuery `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ResultID   string      `gorm:"size:100;not null" json:"resultId"`
	Position   int         `gorm:"not null" json:"position"`
	Similarity float64     `gorm:"not null;default:0" json:"similarity"`
}

func (SearchClick) TableName() string {
	return "search_clicks"
}

// swagger:model SavedSearch
type SavedSearch struct {
	UUIDBase
	UserID  uint           `gorm:"index;not null" json:"userId"`
	Name    string         `gorm:"size:100;not null" json:"name"`
	Query   string         `gorm:"size:500;not null" json:"query"`
	Filters datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"filters"`
}

func (SavedSearch) TableName() string {
	return "saved_searches"
}

// SearchAlert re-runs a saved query on a schedule (the schedule lives in the
// application layer); this store keeps the trigger bookkeeping.
// swagger:model SearchAlert
type SearchAlert struct {
	UUIDBase
	UserID        uint        `gorm:"index;not null" json:"userId"`
	SavedSearchID string      `gorm:"type:varchar(36);index;not null" json:"savedSearchId"`
	SavedSearch   SavedSearch `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	IsActive      bool        `gorm:"not null;default:true" json:"isActive"`
	LastTriggered *time.Time  `json:"lastTriggered"`
	TriggerCount  int         `gorm:"not null;default:0" json:"triggerCount"`
}

func (SearchAlert) TableName() string {
	return "search_alerts"
}

// SuggestionType values are wire-exact for the autocomplete consumers.
type SuggestionType string

const (
	SuggestionMedicalTerm SuggestionType = "MEDICAL_TERM"
	SuggestionTopic       SuggestionType = "TOPIC"
	SuggestionRecentQuery SuggestionType = "RECENT_QUERY"
)

// SearchSuggestion is a term-frequency cache keyed by the exact term.
// swagger:model SearchSuggestion
type SearchSuggestion struct {
	UUIDBase
	Term      string         `gorm:"size:200;not null;uniqueIndex" json:"term"`
	Type      SuggestionType `gorm:"size:20;not null" json:"type"`
	Frequency int            `gorm:"not null;default:1" json:"frequency"`
	LastUsed  time.Time      `gorm:"not null" json:"lastUsed"`
}

func (SearchSuggestion) TableName() string {
	return "search_suggestions"
}

// SearchAnalytics is the per-day query stats rollup, unique per
// (user, date, query), upserted with the same online-average machinery as the
// mission rollups.
// swagger:model SearchAnalytics
type SearchAnalytics struct {
	UUIDBase
	UserID         uint      `gorm:"not null;uniqueIndex:idx_search_analytics_bucket" json:"userId"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_search_analytics_bucket" json:"date"`
	Query          string    `gorm:"size:500;not null;uniqueIndex:idx_search_analytics_bucket" json:"query"`
	SearchCount    int       `gorm:"not null;default:0" json:"searchCount"`
	ClickCount     int       `gorm:"not null;default:0" json:"clickCount"`
	AvgResultCount float64   `gorm:"not null;default:0" json:"avgResultCount"`
}

func (SearchAnalytics) TableName() string {
	return "search_analytics"
}
