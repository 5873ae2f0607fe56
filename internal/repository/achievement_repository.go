package repository

import (
	"americano_backend/internal/model"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// GrantIfEligible appends a ledger row for (user, type, tier) unless one
// already exists. The conflict target is the composite unique index, so
// re-invocation and concurrent double-grants both collapse to a no-op.
// Returns whether a new row was written.
func (r *AchievementRepository) GrantIfEligible(userID uint, achType model.AchievementType, tier model.AchievementTier, metadata map[string]interface{}) (bool, error) {
	raw := []byte("{}")
	if metadata != nil {
		var err error
		raw, err = json.Marshal(metadata)
		if err != nil {
			return false, err
		}
	}

	achievement := model.Achievement{
		UserID:   userID,
		Type:     achType,
		Tier:     tier,
		EarnedAt: time.Now(),
		Metadata: datatypes.JSON(raw),
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "tier"}},
		DoNothing: true,
	}).Create(&achievement)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *AchievementRepository) FindByUserID(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}
