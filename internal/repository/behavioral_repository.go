package repository

import (
	"americano_backend/internal/model"
	"americano_backend/internal/util"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BehavioralRepository struct {
	DB *gorm.DB
}

func NewBehavioralRepository(db *gorm.DB) *BehavioralRepository {
	return &BehavioralRepository{DB: db}
}

// Observation is the evidence fragment handed over by the analytics
// collaborator. Confidence and the semantic signature are computed there;
// this store only persists them and enforces bounds.
type Observation struct {
	Signature  string
	Confidence float64
	Evidence   datatypes.JSON
	SeenAt     time.Time
}

// Observe records one occurrence of a pattern. A matching signature on the
// existing (user, type) row increments the occurrence count and refreshes
// recency; a different signature restarts the bookkeeping at 1 while keeping
// firstSeenAt, since the pattern slot is unique per type. The first
// observation races on the unique index, which ON CONFLICT DO NOTHING
// absorbs before the locking transaction runs.
func (r *BehavioralRepository) Observe(userID uint, patternType model.PatternType, obs Observation) (*model.BehavioralPattern, error) {
	// The empty seed signature never matches the observation, so the
	// transaction below initializes a fresh row to occurrenceCount=1.
	seed := model.BehavioralPattern{
		UserID:      userID,
		PatternType: patternType,
		Evidence:    obs.Evidence,
		FirstSeenAt: obs.SeenAt,
		LastSeenAt:  obs.SeenAt,
	}
	if err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "pattern_type"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var out model.BehavioralPattern
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var pattern model.BehavioralPattern
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND pattern_type = ?", userID, patternType).
			First(&pattern).Error; err != nil {
			return err
		}

		if pattern.Signature == obs.Signature {
			pattern.OccurrenceCount++
		} else {
			pattern.Signature = obs.Signature
			pattern.OccurrenceCount = 1
		}
		pattern.Confidence = obs.Confidence
		pattern.Evidence = obs.Evidence
		if obs.SeenAt.After(pattern.LastSeenAt) {
			pattern.LastSeenAt = obs.SeenAt
		}

		if err := tx.Save(&pattern).Error; err != nil {
			return err
		}
		out = pattern
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BehavioralRepository) FindPatterns(userID uint) ([]model.BehavioralPattern, error) {
	var patterns []model.BehavioralPattern
	err := r.DB.Where("user_id = ?", userID).
		Order("last_seen_at DESC").
		Find(&patterns).Error
	if err != nil {
		return nil, err
	}
	return patterns, nil
}

// DeletePattern removes the pattern and its join rows. Insights survive with
// their acknowledged/applied state untouched.
func (r *BehavioralRepository) DeletePattern(patternID string, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var pattern model.BehavioralPattern
		err := tx.Where("id = ? AND user_id = ?", patternID, userID).First(&pattern).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("pattern_id = ?", patternID).Delete(&model.InsightPattern{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pattern).Error
	})
}

// CreateInsight persists an insight and links it to its supporting patterns
// in one transaction. Every linked pattern must belong to the insight owner.
func (r *BehavioralRepository) CreateInsight(insight *model.BehavioralInsight, patternIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if len(patternIDs) > 0 {
			var owned int64
			err := tx.Model(&model.BehavioralPattern{}).
				Where("id IN ? AND user_id = ?", patternIDs, insight.UserID).
				Count(&owned).Error
			if err != nil {
				return err
			}
			if owned != int64(len(patternIDs)) {
				return util.ErrNotFound
			}
		}

		if err := tx.Create(insight).Error; err != nil {
			return err
		}
		for _, pid := range patternIDs {
			link := model.InsightPattern{InsightID: insight.ID, PatternID: pid}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BehavioralRepository) FindInsights(userID uint) ([]model.BehavioralInsight, error) {
	var insights []model.BehavioralInsight
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *BehavioralRepository) AcknowledgeInsight(insightID string, userID uint, at time.Time) error {
	result := r.DB.Model(&model.BehavioralInsight{}).
		Where("id = ? AND user_id = ? AND acknowledged_at IS NULL", insightID, userID).
		Update("acknowledged_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *BehavioralRepository) MarkInsightApplied(insightID string, userID uint) error {
	result := r.DB.Model(&model.BehavioralInsight{}).
		Where("id = ? AND user_id = ?", insightID, userID).
		Update("applied", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// UpsertProfile creates or refreshes the one-per-user learning profile.
func (r *BehavioralRepository) UpsertProfile(profile *model.UserLearningProfile) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"preferred_times", "preferred_durations", "content_prefs",
			"data_quality_score", "last_analyzed_at", "updated_at",
		}),
	}).Create(profile).Error
}

func (r *BehavioralRepository) FindProfile(userID uint) (*model.UserLearningProfile, error) {
	var profile model.UserLearningProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
