package model

import (
	"time"

	"gorm.io/datatypes"
)

type MissionStatus string

const (
	MissionActive   MissionStatus = "ACTIVE"
	MissionArchived MissionStatus = "ARCHIVED"
)

// Mission is the parent row feedback hangs off of. Mission content itself is
// owned by the application layer; this store only needs the FK anchor.
// swagger:model Mission
type Mission struct {
	UUIDBase
	UserID uint           `gorm:"index;not null" json:"userId"`
	Date   time.Time      `gorm:"type:date;not null" json:"date"`
	Status MissionStatus  `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	Detail datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"detail"`
}

func (Mission) TableName() string {
	return "missions"
}

// DifficultyRating values are wire-exact for the dashboard consumers.
type DifficultyRating string

const (
	RatingTooSlow   DifficultyRating = "TOO_SLOW"
	RatingJustRight DifficultyRating = "JUST_RIGHT"
	RatingTooFast   DifficultyRating = "TOO_FAST"
)

// MissionFeedback is immutable once submitted and cascade-deletes with its
// mission.
// swagger:model MissionFeedback
type MissionFeedback struct {
	UUIDBase
	UserID           uint             `gorm:"index;not null" json:"userId"`
	MissionID        string           `gorm:"type:varchar(36);index;not null" json:"missionId"`
	Mission          Mission          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Helpfulness      int              `gorm:"not null" json:"helpfulness"`
	DifficultyRating DifficultyRating `gorm:"size:20;not null" json:"difficultyRating"`
	Comment          string           `gorm:"type:text" json:"comment"`
}

func (MissionFeedback) TableName() string {
	return "mission_feedback"
}

// MissionAnalytics is the per-bucket rollup: one row per (user, date, period),
// where date is already truncated to the bucket start by the caller. Averages
// are maintained online, no raw samples are stored.
// swagger:model MissionAnalytics
type MissionAnalytics struct {
	UUIDBase
	UserID              uint       `gorm:"not null;uniqueIndex:idx_mission_analytics_bucket" json:"userId"`
	Date                time.Time  `gorm:"type:date;not null;uniqueIndex:idx_mission_analytics_bucket" json:"date"`
	Period              GoalPeriod `gorm:"size:10;not null;uniqueIndex:idx_mission_analytics_bucket" json:"period"`
	CompletedCount      int        `gorm:"not null;default:0" json:"completedCount"`
	SkippedCount        int        `gorm:"not null;default:0" json:"skippedCount"`
	ObjectivesCompleted int        `gorm:"not null;default:0" json:"objectivesCompleted"`
	AvgDurationMinutes  float64    `gorm:"not null;default:0" json:"avgDurationMinutes"`
	AvgAccuracy         float64    `gorm:"not null;default:0" json:"avgAccuracy"`
}

func (MissionAnalytics) TableName() string {
	return "mission_analytics"
}

// MissionReview is generated once per period close and read-only after. The
// structured blobs are owned by the analytics collaborator.
// swagger:model MissionReview
type MissionReview struct {
	UUIDBase
	UserID          uint           `gorm:"not null;uniqueIndex:idx_mission_review_bucket" json:"userId"`
	Period          GoalPeriod     `gorm:"size:10;not null;uniqueIndex:idx_mission_review_bucket" json:"period"`
	StartDate       time.Time      `gorm:"type:date;not null;uniqueIndex:idx_mission_review_bucket" json:"startDate"`
	Summary         datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"summary"`
	Highlights      datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"highlights"`
	Insights        datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"insights"`
	Recommendations datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"recommendations"`
}

func (MissionReview) TableName() string {
	return "mission_reviews"
}
