package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/util"
	"time"

	"gorm.io/datatypes"
)

// missionStreakMilestones and missionVolumeTiers gate the mission-side
// achievements: consecutive completion days and lifetime completed count.
var missionStreakMilestones = []struct {
	Days int
	Tier model.AchievementTier
}{
	{3, model.TierBronze},
	{7, model.TierSilver},
	{30, model.TierGold},
	{100, model.TierPlatinum},
}

var missionVolumeTiers = []struct {
	Count int
	Tier  model.AchievementTier
}{
	{10, model.TierBronze},
	{50, model.TierSilver},
	{200, model.TierGold},
	{500, model.TierPlatinum},
}

type MissionService struct {
	MissionRepo     *repository.MissionRepository
	AnalyticsRepo   *repository.MissionAnalyticsRepository
	AchievementRepo *repository.AchievementRepository
	GoalService     *GoalService
}

func NewMissionService(
	missionRepo *repository.MissionRepository,
	analyticsRepo *repository.MissionAnalyticsRepository,
	achievementRepo *repository.AchievementRepository,
	goalService *GoalService,
) *MissionService {
	return &MissionService{
		MissionRepo:     missionRepo,
		AnalyticsRepo:   analyticsRepo,
		AchievementRepo: achievementRepo,
		GoalService:     goalService,
	}
}

type CreateMissionRequest struct {
	Date   *time.Time     `json:"date"`
	Detail datatypes.JSON `json:"detail"`
}

func (s *MissionService) CreateMission(userID uint, req CreateMissionRequest) (*model.Mission, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	detail := req.Detail
	if detail == nil {
		detail = datatypes.JSON([]byte("{}"))
	}

	mission := &model.Mission{
		UserID: userID,
		Date:   util.TruncateToDay(date),
		Status: model.MissionActive,
		Detail: detail,
	}
	if err := s.MissionRepo.CreateMission(mission); err != nil {
		return nil, err
	}
	return mission, nil
}

func (s *MissionService) GetMission(missionID string, userID uint) (*model.Mission, error) {
	return s.MissionRepo.FindMission(missionID, userID)
}

type CompleteMissionRequest struct {
	Helpfulness         int                    `json:"helpfulness" binding:"required"`
	DifficultyRating    model.DifficultyRating `json:"difficultyRating" binding:"required"`
	Comment             string                 `json:"comment"`
	ObjectivesCompleted int                    `json:"objectivesCompleted"`
	DurationMinutes     float64                `json:"durationMinutes"`
	Accuracy            float64                `json:"accuracy"`
}

type CompleteMissionOutcome struct {
	Feedback      model.MissionFeedback `json:"feedback"`
	MissionStreak model.MissionStreak   `json:"missionStreak"`
	GoalsAdvanced []model.StudyGoal     `json:"goalsAdvanced"`
}

// CompleteMission is the single entry point for a finished mission: it records
// the feedback, bumps the consecutive-day mission streak, advances any open
// MISSIONS_COMPLETED goals, and folds the session stats into the daily,
// weekly, and monthly rollups. Each effect is individually idempotent-safe
// against retries where the store can express it (achievements, rollup keys),
// but callers should not replay a completion wholesale.
func (s *MissionService) CompleteMission(missionID string, userID uint, req CompleteMissionRequest) (*CompleteMissionOutcome, error) {
	if req.Helpfulness < 1 || req.Helpfulness > 5 {
		return nil, util.ErrInvariantViolation
	}
	if !validDifficultyRating(req.DifficultyRating) {
		return nil, util.ErrInvariantViolation
	}
	if req.Accuracy < 0 || req.Accuracy > 1 {
		return nil, util.ErrInvariantViolation
	}
	if req.DurationMinutes < 0 || req.ObjectivesCompleted < 0 {
		return nil, util.ErrInvariantViolation
	}

	mission, err := s.MissionRepo.FindMission(missionID, userID)
	if err != nil {
		return nil, err
	}

	feedback := model.MissionFeedback{
		UserID:           userID,
		MissionID:        mission.ID,
		Helpfulness:      req.Helpfulness,
		DifficultyRating: req.DifficultyRating,
		Comment:          req.Comment,
	}
	if err := s.MissionRepo.CreateFeedback(&feedback); err != nil {
		return nil, err
	}

	now := time.Now()
	streakResult, err := s.MissionRepo.RecordCompletionDay(userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.grantMissionAchievements(userID, streakResult.Streak.CurrentStreak); err != nil {
		return nil, err
	}

	goals, err := s.GoalService.AdvanceActiveGoals(userID, model.GoalMissionsCompleted, 1, now)
	if err != nil {
		return nil, err
	}

	delta := repository.RollupDelta{
		Completed:           true,
		ObjectivesCompleted: req.ObjectivesCompleted,
		DurationMinutes:     req.DurationMinutes,
		Accuracy:            req.Accuracy,
	}
	if err := s.upsertAllBuckets(userID, now, delta); err != nil {
		return nil, err
	}

	return &CompleteMissionOutcome{
		Feedback:      feedback,
		MissionStreak: streakResult.Streak,
		GoalsAdvanced: goals,
	}, nil
}

// SkipMission counts a skip into the rollups without touching streaks or
// goals.
func (s *MissionService) SkipMission(missionID string, userID uint) error {
	if _, err := s.MissionRepo.FindMission(missionID, userID); err != nil {
		return err
	}
	return s.upsertAllBuckets(userID, time.Now(), repository.RollupDelta{Skipped: true})
}

func (s *MissionService) upsertAllBuckets(userID uint, at time.Time, delta repository.RollupDelta) error {
	for _, period := range []model.GoalPeriod{model.PeriodDaily, model.PeriodWeekly, model.PeriodMonthly} {
		bucket := util.BucketStart(at, period)
		if err := s.AnalyticsRepo.UpsertRollup(userID, bucket, period, delta); err != nil {
			return err
		}
	}
	return nil
}

func (s *MissionService) grantMissionAchievements(userID uint, currentStreak int) error {
	for _, milestone := range missionStreakMilestones {
		if currentStreak < milestone.Days {
			break
		}
		if _, err := s.AchievementRepo.GrantIfEligible(userID, model.AchMissionStreakMilestone, milestone.Tier, map[string]interface{}{
			"days": milestone.Days,
		}); err != nil {
			return err
		}
	}

	// Lifetime completed count lives in the daily rollups; summing MONTHLY
	// buckets keeps the scan small.
	completed, err := s.lifetimeCompleted(userID)
	if err != nil {
		return err
	}
	for _, tier := range missionVolumeTiers {
		if completed < tier.Count {
			break
		}
		if _, err := s.AchievementRepo.GrantIfEligible(userID, model.AchMissionsCompleted, tier.Tier, map[string]interface{}{
			"count": tier.Count,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *MissionService) lifetimeCompleted(userID uint) (int, error) {
	rows, err := s.AnalyticsRepo.FindRange(userID, model.PeriodMonthly, time.Time{}, time.Now().AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range rows {
		total += r.CompletedCount
	}
	return total, nil
}

func (s *MissionService) GetFeedback(missionID string, userID uint) ([]model.MissionFeedback, error) {
	if _, err := s.MissionRepo.FindMission(missionID, userID); err != nil {
		return nil, err
	}
	return s.MissionRepo.FindFeedbackByMission(missionID)
}

func (s *MissionService) GetMissionStreak(userID uint) (*model.MissionStreak, error) {
	return s.MissionRepo.FindStreak(userID)
}

func (s *MissionService) GetAnalytics(userID uint, period model.GoalPeriod, from, to time.Time) ([]model.MissionAnalytics, error) {
	if !validPeriod(period) {
		return nil, util.ErrInvariantViolation
	}
	return s.AnalyticsRepo.FindRange(userID, period, util.BucketStart(from, period), to)
}

type CreateReviewRequest struct {
	Period          model.GoalPeriod `json:"period" binding:"required"`
	StartDate       time.Time        `json:"startDate" binding:"required"`
	Summary         datatypes.JSON   `json:"summary"`
	Highlights      datatypes.JSON   `json:"highlights"`
	Insights        datatypes.JSON   `json:"insights"`
	Recommendations datatypes.JSON   `json:"recommendations"`
}

// CreateReview stores a period review exactly once; a second write for the
// same (user, period, start) bucket is rejected rather than merged.
func (s *MissionService) CreateReview(userID uint, req CreateReviewRequest) (*model.MissionReview, error) {
	if !validPeriod(req.Period) {
		return nil, util.ErrInvariantViolation
	}

	review := &model.MissionReview{
		UserID:          userID,
		Period:          req.Period,
		StartDate:       util.BucketStart(req.StartDate, req.Period),
		Summary:         jsonOrDefault(req.Summary, "{}"),
		Highlights:      jsonOrDefault(req.Highlights, "[]"),
		Insights:        jsonOrDefault(req.Insights, "[]"),
		Recommendations: jsonOrDefault(req.Recommendations, "[]"),
	}
	if err := s.MissionRepo.CreateReview(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *MissionService) GetReviews(userID uint, period model.GoalPeriod, limit int) ([]model.MissionReview, error) {
	if !validPeriod(period) {
		return nil, util.ErrInvariantViolation
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.MissionRepo.FindReviews(userID, period, limit)
}

func validDifficultyRating(r model.DifficultyRating) bool {
	switch r {
	case model.RatingTooSlow, model.RatingJustRight, model.RatingTooFast:
		return true
	}
	return false
}

func jsonOrDefault(j datatypes.JSON, fallback string) datatypes.JSON {
	if j == nil {
		return datatypes.JSON([]byte(fallback))
	}
	return j
}
