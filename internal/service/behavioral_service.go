package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/util"
	"time"

	"gorm.io/datatypes"
)

type BehavioralService struct {
	BehavioralRepo *repository.BehavioralRepository
}

func NewBehavioralService(behavioralRepo *repository.BehavioralRepository) *BehavioralService {
	return &BehavioralService{
		BehavioralRepo: behavioralRepo,
	}
}

type ObservePatternRequest struct {
	PatternType model.PatternType `json:"patternType" binding:"required"`
	Signature   string            `json:"signature" binding:"required"`
	Confidence  float64           `json:"confidence"`
	Evidence    datatypes.JSON    `json:"evidence"`
	SeenAt      *time.Time        `json:"seenAt"`
}

// ObservePattern folds one detection into the per-(user, type) pattern row:
// a matching signature reinforces the occurrence count, a changed signature
// restarts it while keeping the first-seen anchor.
func (s *BehavioralService) ObservePattern(userID uint, req ObservePatternRequest) (*model.BehavioralPattern, error) {
	if req.Signature == "" || !validPatternType(req.PatternType) {
		return nil, util.ErrInvariantViolation
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		return nil, util.ErrInvariantViolation
	}

	seenAt := time.Now()
	if req.SeenAt != nil {
		seenAt = *req.SeenAt
	}
	evidence := req.Evidence
	if evidence == nil {
		evidence = datatypes.JSON([]byte("{}"))
	}

	return s.BehavioralRepo.Observe(userID, req.PatternType, repository.Observation{
		Signature:  req.Signature,
		Confidence: req.Confidence,
		Evidence:   evidence,
		SeenAt:     seenAt,
	})
}

func (s *BehavioralService) GetPatterns(userID uint) ([]model.BehavioralPattern, error) {
	return s.BehavioralRepo.FindPatterns(userID)
}

// DeletePattern removes a pattern and its insight links. Insights derived
// from the pattern survive with their acknowledged and applied state intact.
func (s *BehavioralService) DeletePattern(patternID string, userID uint) error {
	return s.BehavioralRepo.DeletePattern(patternID, userID)
}

type CreateInsightRequest struct {
	InsightType model.InsightType `json:"insightType" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Body        datatypes.JSON    `json:"body"`
	Confidence  float64           `json:"confidence"`
	PatternIDs  []string          `json:"patternIds"`
}

func (s *BehavioralService) CreateInsight(userID uint, req CreateInsightRequest) (*model.BehavioralInsight, error) {
	if req.Title == "" || !validInsightType(req.InsightType) {
		return nil, util.ErrInvariantViolation
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		return nil, util.ErrInvariantViolation
	}

	insight := &model.BehavioralInsight{
		UserID:      userID,
		InsightType: req.InsightType,
		Title:       req.Title,
		Body:        jsonOrDefault(req.Body, "{}"),
		Confidence:  req.Confidence,
	}
	if err := s.BehavioralRepo.CreateInsight(insight, req.PatternIDs); err != nil {
		return nil, err
	}
	return insight, nil
}

func (s *BehavioralService) GetInsights(userID uint) ([]model.BehavioralInsight, error) {
	return s.BehavioralRepo.FindInsights(userID)
}

// AcknowledgeInsight stamps the first acknowledgement; repeats are rejected.
func (s *BehavioralService) AcknowledgeInsight(insightID string, userID uint) error {
	return s.BehavioralRepo.AcknowledgeInsight(insightID, userID, time.Now())
}

func (s *BehavioralService) MarkInsightApplied(insightID string, userID uint) error {
	return s.BehavioralRepo.MarkInsightApplied(insightID, userID)
}

type UpsertProfileRequest struct {
	PreferredTimes     datatypes.JSON `json:"preferredTimes"`
	PreferredDurations datatypes.JSON `json:"preferredDurations"`
	ContentPrefs       datatypes.JSON `json:"contentPrefs"`
	DataQualityScore   float64        `json:"dataQualityScore"`
}

func (s *BehavioralService) UpsertProfile(userID uint, req UpsertProfileRequest) (*model.UserLearningProfile, error) {
	if req.DataQualityScore < 0 || req.DataQualityScore > 1 {
		return nil, util.ErrInvariantViolation
	}

	now := time.Now()
	profile := &model.UserLearningProfile{
		UserID:             userID,
		PreferredTimes:     jsonOrDefault(req.PreferredTimes, "[]"),
		PreferredDurations: jsonOrDefault(req.PreferredDurations, "[]"),
		ContentPrefs:       jsonOrDefault(req.ContentPrefs, "{}"),
		DataQualityScore:   req.DataQualityScore,
		LastAnalyzedAt:     &now,
	}
	if err := s.BehavioralRepo.UpsertProfile(profile); err != nil {
		return nil, err
	}
	return s.BehavioralRepo.FindProfile(userID)
}

func (s *BehavioralService) GetProfile(userID uint) (*model.UserLearningProfile, error) {
	return s.BehavioralRepo.FindProfile(userID)
}

func validPatternType(t model.PatternType) bool {
	switch t {
	case model.PatternOptimalStudyTime, model.PatternSessionLength, model.PatternContentPreference,
		model.PatternForgettingCurve, model.PatternProcrastination:
		return true
	}
	return false
}

func validInsightType(t model.InsightType) bool {
	switch t {
	case model.InsightRecommendation, model.InsightWarning, model.InsightObservation:
		return true
	}
	return false
}
