package model

import (
	"time"

	"gorm.io/datatypes"
)

// AchievementType values are read directly by the dashboard and the Python
// analytics service; do not rename them.
type AchievementType string

const (
	AchStreakMilestone        AchievementType = "STREAK_MILESTONE"
	AchMissionStreakMilestone AchievementType = "MISSION_STREAK_MILESTONE"
	AchMissionsCompleted      AchievementType = "MISSIONS_COMPLETED"
	AchGoalsCompleted         AchievementType = "GOALS_COMPLETED"
	AchPerfectWeek            AchievementType = "PERFECT_WEEK"
)

type AchievementTier string

const (
	TierBronze   AchievementTier = "BRONZE"
	TierSilver   AchievementTier = "SILVER"
	TierGold     AchievementTier = "GOLD"
	TierPlatinum AchievementTier = "PLATINUM"
)

// Achievement is an append-only ledger row. A tier upgrade inserts a new row;
// earned rows are never mutated. The composite unique index makes granting
// idempotent per (user, type, tier).
// swagger:model Achievement
type Achievement struct {
	UUIDBase
	UserID   uint            `gorm:"not null;uniqueIndex:idx_achievement_user_type_tier" json:"userId"`
	Type     AchievementType `gorm:"size:40;not null;uniqueIndex:idx_achievement_user_type_tier" json:"type"`
	Tier     AchievementTier `gorm:"size:20;not null;default:'BRONZE';uniqueIndex:idx_achievement_user_type_tier" json:"tier"`
	EarnedAt time.Time       `gorm:"not null" json:"earnedAt"`
	Metadata datatypes.JSON  `gorm:"type:jsonb;default:'{}'" json:"metadata"`
}

func (Achievement) TableName() string {
	return "achievements"
}
