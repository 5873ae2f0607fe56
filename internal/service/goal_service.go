package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/util"
	"time"
)

// goalCompletionTiers maps the lifetime count of completed goals to tiers.
var goalCompletionTiers = []struct {
	Count int
	Tier  model.AchievementTier
}{
	{1, model.TierBronze},
	{10, model.TierSilver},
	{50, model.TierGold},
	{100, model.TierPlatinum},
}

type GoalService struct {
	GoalRepo        *repository.GoalRepository
	AchievementRepo *repository.AchievementRepository
}

func NewGoalService(goalRepo *repository.GoalRepository, achievementRepo *repository.AchievementRepository) *GoalService {
	return &GoalService{
		GoalRepo:        goalRepo,
		AchievementRepo: achievementRepo,
	}
}

type CreateGoalRequest struct {
	GoalType    model.GoalType   `json:"goalType" binding:"required"`
	TargetValue int              `json:"targetValue" binding:"required"`
	Period      model.GoalPeriod `json:"period" binding:"required"`
	StartDate   *time.Time       `json:"startDate"`
}

// CreateGoal opens a goal window. The window is derived from the period: a
// DAILY goal spans one day, WEEKLY spans Monday to Monday, MONTHLY spans the
// calendar month containing the start date.
func (s *GoalService) CreateGoal(userID uint, req CreateGoalRequest) (*model.StudyGoal, error) {
	if req.TargetValue <= 0 {
		return nil, util.ErrInvariantViolation
	}
	if !validGoalType(req.GoalType) || !validPeriod(req.Period) {
		return nil, util.ErrInvariantViolation
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	start = util.BucketStart(start, req.Period)

	goal := &model.StudyGoal{
		UserID:      userID,
		GoalType:    req.GoalType,
		TargetValue: req.TargetValue,
		Period:      req.Period,
		StartDate:   start,
		EndDate:     periodEnd(start, req.Period),
	}

	if err := s.GoalRepo.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) GetGoals(userID uint) ([]model.StudyGoal, error) {
	return s.GoalRepo.FindByUserID(userID)
}

func (s *GoalService) GetGoal(goalID string, userID uint) (*model.StudyGoal, error) {
	return s.GoalRepo.FindByIDAndUserID(goalID, userID)
}

// RecordProgress advances a single goal by the given amount. Completing a goal
// may unlock a GOALS_COMPLETED tier.
func (s *GoalService) RecordProgress(goalID string, userID uint, amount int) (*model.StudyGoal, error) {
	if amount <= 0 {
		return nil, util.ErrInvariantViolation
	}

	goal, completed, err := s.GoalRepo.Advance(goalID, userID, amount, time.Now())
	if err != nil {
		return nil, err
	}

	if completed {
		if err := s.grantCompletionTiers(userID); err != nil {
			return nil, err
		}
	}
	return goal, nil
}

// AdvanceActiveGoals pushes progress into every open goal of the given type
// whose window contains now. Expired or completed goals are left alone.
func (s *GoalService) AdvanceActiveGoals(userID uint, goalType model.GoalType, amount int, now time.Time) ([]model.StudyGoal, error) {
	if amount <= 0 {
		return nil, util.ErrInvariantViolation
	}

	active, err := s.GoalRepo.FindActiveByType(userID, goalType, now)
	if err != nil {
		return nil, err
	}

	var advanced []model.StudyGoal
	anyCompleted := false
	for _, g := range active {
		goal, completed, err := s.GoalRepo.Advance(g.ID, userID, amount, now)
		if err == util.ErrGoalExpired {
			continue
		}
		if err != nil {
			return nil, err
		}
		advanced = append(advanced, *goal)
		if completed {
			anyCompleted = true
		}
	}

	if anyCompleted {
		if err := s.grantCompletionTiers(userID); err != nil {
			return nil, err
		}
	}
	return advanced, nil
}

func (s *GoalService) DeleteGoal(goalID string, userID uint) error {
	return s.GoalRepo.Delete(goalID, userID)
}

func (s *GoalService) grantCompletionTiers(userID uint) error {
	goals, err := s.GoalRepo.FindByUserID(userID)
	if err != nil {
		return err
	}
	completedCount := 0
	for _, g := range goals {
		if g.IsCompleted {
			completedCount++
		}
	}

	for _, tier := range goalCompletionTiers {
		if completedCount < tier.Count {
			break
		}
		if _, err := s.AchievementRepo.GrantIfEligible(userID, model.AchGoalsCompleted, tier.Tier, map[string]interface{}{
			"count": tier.Count,
		}); err != nil {
			return err
		}
	}
	return nil
}

func periodEnd(start time.Time, period model.GoalPeriod) time.Time {
	switch period {
	case model.PeriodDaily:
		return start.AddDate(0, 0, 1)
	case model.PeriodWeekly:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}

func validGoalType(t model.GoalType) bool {
	switch t {
	case model.GoalCardsReviewed, model.GoalStudyMinutes, model.GoalMissionsCompleted, model.GoalQuestionsAnswered:
		return true
	}
	return false
}

func validPeriod(p model.GoalPeriod) bool {
	switch p {
	case model.PeriodDaily, model.PeriodWeekly, model.PeriodMonthly:
		return true
	}
	return false
}
