package model

import (
	"time"

	"gorm.io/datatypes"
)

// DefaultFreezeAllowance is the number of streak freezes a fresh streak row
// starts with. The monthly top-up is applied by an external scheduler through
// the API.
const DefaultFreezeAllowance = 3

// Streak tracks consecutive study days per user. One row per user; the
// current streak never exceeds the longest. Freeze days preserve a streak
// across short gaps.
// swagger:model Streak
type Streak struct {
	BaseModel
	UserID           uint           `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak    int            `gorm:"not null;default:0" json:"currentStreak"`
	LongestStreak    int            `gorm:"not null;default:0" json:"longestStreak"`
	LastStudyDate    *time.Time     `gorm:"type:date" json:"lastStudyDate"`
	FreezesRemaining int            `gorm:"not null;default:3" json:"freezesRemaining"`
	FreezeUsedDates  datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"freezeUsedDates"`
}

func (Streak) TableName() string {
	return "streaks"
}

// MissionStreak mirrors Streak scoped to daily mission completion. No freeze
// grace: a missed day resets it.
// swagger:model MissionStreak
type MissionStreak struct {
	BaseModel
	UserID            uint       `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak     int        `gorm:"not null;default:0" json:"currentStreak"`
	LongestStreak     int        `gorm:"not null;default:0" json:"longestStreak"`
	LastCompletedDate *time.Time `gorm:"type:date" json:"lastCompletedDate"`
}

func (MissionStreak) TableName() string {
	return "mission_streaks"
}
