package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/util"
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	leaderboardCacheKey = "streaks:leaderboard"
	leaderboardCacheTTL = 5 * time.Minute
)

// streakMilestones maps study-streak lengths to achievement tiers. Crossing a
// milestone grants at most one achievement per tier for the lifetime of the
// account.
var streakMilestones = []struct {
	Days int
	Tier model.AchievementTier
}{
	{7, model.TierBronze},
	{30, model.TierSilver},
	{100, model.TierGold},
	{365, model.TierPlatinum},
}

type StreakService struct {
	StreakRepo      *repository.StreakRepository
	AchievementRepo *repository.AchievementRepository
	Redis           *redis.Client
}

func NewStreakService(streakRepo *repository.StreakRepository, achievementRepo *repository.AchievementRepository, rdb *redis.Client) *StreakService {
	return &StreakService{
		StreakRepo:      streakRepo,
		AchievementRepo: achievementRepo,
		Redis:           rdb,
	}
}

type ActivityOutcome struct {
	Streak             model.Streak        `json:"streak"`
	Extended           bool                `json:"extended"`
	Reset              bool                `json:"reset"`
	FreezesSpent       int                 `json:"freezesSpent"`
	UnlockedMilestones []model.Achievement `json:"unlockedMilestones"`
}

// RecordActivity applies one study day to the user's streak and grants any
// milestone achievements the new length crosses. Milestone grants are
// idempotent, so replays of the same day cannot double-award.
func (s *StreakService) RecordActivity(userID uint, activityDate time.Time) (*ActivityOutcome, error) {
	result, err := s.StreakRepo.RecordActivity(userID, activityDate)
	if err != nil {
		return nil, err
	}

	outcome := &ActivityOutcome{
		Streak:       result.Streak,
		Extended:     result.Extended,
		Reset:        result.Reset,
		FreezesSpent: result.FreezesSpent,
	}

	grantedTiers := make(map[model.AchievementTier]bool)
	for _, milestone := range streakMilestones {
		if result.Streak.CurrentStreak < milestone.Days {
			break
		}
		granted, err := s.AchievementRepo.GrantIfEligible(userID, model.AchStreakMilestone, milestone.Tier, map[string]interface{}{
			"days": milestone.Days,
		})
		if err != nil {
			return nil, err
		}
		if granted {
			grantedTiers[milestone.Tier] = true
		}
	}

	if len(grantedTiers) > 0 {
		achievements, err := s.AchievementRepo.FindByUserID(userID)
		if err != nil {
			return nil, err
		}
		for _, a := range achievements {
			if a.Type == model.AchStreakMilestone && grantedTiers[a.Tier] {
				outcome.UnlockedMilestones = append(outcome.UnlockedMilestones, a)
			}
		}
	}

	return outcome, nil
}

func (s *StreakService) GetStreak(userID uint) (*model.Streak, error) {
	return s.StreakRepo.FindByUserID(userID)
}

// GrantFreezes awards earned streak freezes, e.g. from weekly goal completion.
func (s *StreakService) GrantFreezes(userID uint, n int) error {
	if n <= 0 {
		return util.ErrInvariantViolation
	}
	return s.StreakRepo.GrantFreezes(userID, n)
}

type LeaderboardEntry struct {
	Rank          int  `json:"rank"`
	UserID        uint `json:"userId"`
	CurrentStreak int  `json:"currentStreak"`
	LongestStreak int  `json:"longestStreak"`
}

// GetLeaderboard returns the top active streaks, served from a short-lived
// Redis cache so the hot endpoint does not hammer the table.
func (s *StreakService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	val, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
	if err == nil {
		var cached []LeaderboardEntry
		if err := json.Unmarshal([]byte(val), &cached); err == nil && len(cached) >= limit {
			return cached[:limit], nil
		}
	} else if err != redis.Nil {
		return nil, err
	}

	streaks, err := s.StreakRepo.TopStreaks(100)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(streaks))
	for i, st := range streaks {
		entries = append(entries, LeaderboardEntry{
			Rank:          i + 1,
			UserID:        st.UserID,
			CurrentStreak: st.CurrentStreak,
			LongestStreak: st.LongestStreak,
		})
	}

	if payload, err := json.Marshal(entries); err == nil {
		// Cache failures are not fatal; the next call recomputes.
		s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL)
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
