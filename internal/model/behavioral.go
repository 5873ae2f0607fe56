package model

import (
	"time"

	"gorm.io/datatypes"
)

type PatternType string

const (
	PatternOptimalStudyTime  PatternType = "OPTIMAL_STUDY_TIME"
	PatternSessionLength     PatternType = "SESSION_LENGTH"
	PatternContentPreference PatternType = "CONTENT_PREFERENCE"
	PatternForgettingCurve   PatternType = "FORGETTING_CURVE"
	PatternProcrastination   PatternType = "PROCRASTINATION"
)

// BehavioralPattern is a detected recurring behavior. Confidence is computed
// by the ML collaborator; this store only bounds it and keeps the occurrence
// bookkeeping honest. One row per (user, type).
// swagger:model BehavioralPattern
type BehavioralPattern struct {
	UUIDBase
	UserID          uint           `gorm:"not null;uniqueIndex:idx_pattern_user_type" json:"userId"`
	PatternType     PatternType    `gorm:"size:40;not null;uniqueIndex:idx_pattern_user_type" json:"patternType"`
	Signature       string         `gorm:"size:255;not null" json:"signature"`
	Confidence      float64        `gorm:"not null" json:"confidence"`
	OccurrenceCount int            `gorm:"not null;default:1" json:"occurrenceCount"`
	Evidence        datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"evidence"`
	FirstSeenAt     time.Time      `gorm:"not null" json:"firstSeenAt"`
	LastSeenAt      time.Time      `gorm:"not null" json:"lastSeenAt"`
}

func (BehavioralPattern) TableName() string {
	return "behavioral_patterns"
}

type InsightType string

const (
	InsightRecommendation InsightType = "RECOMMENDATION"
	InsightWarning        InsightType = "WARNING"
	InsightObservation    InsightType = "OBSERVATION"
)

// BehavioralInsight is created from analysis output. Only acknowledgement and
// the applied flag are ever mutated; the insight survives deletion of the
// patterns that produced it.
// swagger:model BehavioralInsight
type BehavioralInsight struct {
	UUIDBase
	UserID         uint           `gorm:"index;not null" json:"userId"`
	InsightType    InsightType    `gorm:"size:30;not null" json:"insightType"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Body           datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"body"`
	Confidence     float64        `gorm:"not null" json:"confidence"`
	AcknowledgedAt *time.Time     `json:"acknowledgedAt"`
	Applied        bool           `gorm:"not null;default:false" json:"applied"`
}

func (BehavioralInsight) TableName() string {
	return "behavioral_insights"
}

// InsightPattern joins insights to the patterns that support them. It owns
// nothing beyond the relation and cascades from either side.
type InsightPattern struct {
	InsightID string            `gorm:"type:varchar(36);primaryKey" json:"insightId"`
	PatternID string            `gorm:"type:varchar(36);primaryKey" json:"patternId"`
	Insight   BehavioralInsight `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Pattern   BehavioralPattern `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (InsightPattern) TableName() string {
	return "insight_patterns"
}

// UserLearningProfile is a lazily created one-per-user summary refreshed on
// reanalysis. Preference blobs are opaque here.
// swagger:model UserLearningProfile
type UserLearningProfile struct {
	BaseModel
	UserID             uint           `gorm:"uniqueIndex;not null" json:"userId"`
	PreferredTimes     datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"preferredTimes"`
	PreferredDurations datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"preferredDurations"`
	ContentPrefs       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"contentPrefs"`
	DataQualityScore   float64        `gorm:"not null;default:0" json:"dataQualityScore"`
	LastAnalyzedAt     *time.Time     `json:"lastAnalyzedAt"`
}

func (UserLearningProfile) TableName() string {
	return "user_learning_profiles"
}
