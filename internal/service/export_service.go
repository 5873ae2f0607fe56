package service

import (
	"americano_backend/internal/config"
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"americano_backend/internal/util"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ExportService writes a JSON takeout of a user's analytics data to object
// storage before the rows are destroyed. With no endpoint configured the
// service is nil and deletion proceeds without an archive.
type ExportService struct {
	Cfg    *config.StorageConfig
	Client *minio.Client

	StreakRepo      *repository.StreakRepository
	AchievementRepo *repository.AchievementRepository
	GoalRepo        *repository.GoalRepository
	MissionRepo     *repository.MissionRepository
	AnalyticsRepo   *repository.MissionAnalyticsRepository
	BehavioralRepo  *repository.BehavioralRepository
	SearchRepo      *repository.SearchRepository
}

func NewExportService(
	cfg *config.StorageConfig,
	streakRepo *repository.StreakRepository,
	achievementRepo *repository.AchievementRepository,
	goalRepo *repository.GoalRepository,
	missionRepo *repository.MissionRepository,
	analyticsRepo *repository.MissionAnalyticsRepository,
	behavioralRepo *repository.BehavioralRepository,
	searchRepo *repository.SearchRepository,
) (*ExportService, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &ExportService{
		Cfg:             cfg,
		Client:          client,
		StreakRepo:      streakRepo,
		AchievementRepo: achievementRepo,
		GoalRepo:        goalRepo,
		MissionRepo:     missionRepo,
		AnalyticsRepo:   analyticsRepo,
		BehavioralRepo:  behavioralRepo,
		SearchRepo:      searchRepo,
	}, nil
}

type userTakeout struct {
	UserID      uint                      `json:"userId"`
	ExportedAt  time.Time                 `json:"exportedAt"`
	Streak      *model.Streak             `json:"streak,omitempty"`
	Achievement []model.Achievement       `json:"achievements"`
	Goals       []model.StudyGoal         `json:"goals"`
	Missions    []model.MissionAnalytics  `json:"missionAnalytics"`
	Patterns    []model.BehavioralPattern `json:"behavioralPatterns"`
	Insights    []model.BehavioralInsight `json:"behavioralInsights"`
	SearchStats []model.SearchAnalytics   `json:"searchStats"`
}

// collectTakeout gathers every aggregate the user owns. A missing streak row
// just means no recorded activity; any other repository error aborts the
// export, and with it the deletion it gates.
func (s *ExportService) collectTakeout(userID uint) (*userTakeout, error) {
	takeout := userTakeout{
		UserID:     userID,
		ExportedAt: time.Now(),
	}

	streak, err := s.StreakRepo.FindByUserID(userID)
	switch {
	case err == nil:
		takeout.Streak = streak
	case errors.Is(err, util.ErrNotFound):
	default:
		return nil, err
	}
	if takeout.Achievement, err = s.AchievementRepo.FindByUserID(userID); err != nil {
		return nil, err
	}
	if takeout.Goals, err = s.GoalRepo.FindByUserID(userID); err != nil {
		return nil, err
	}
	if takeout.Missions, err = s.AnalyticsRepo.FindRange(userID, model.PeriodDaily, time.Time{}, time.Now().AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if takeout.Patterns, err = s.BehavioralRepo.FindPatterns(userID); err != nil {
		return nil, err
	}
	if takeout.Insights, err = s.BehavioralRepo.FindInsights(userID); err != nil {
		return nil, err
	}
	if takeout.SearchStats, err = s.SearchRepo.FindDailyStats(userID, time.Time{}, time.Now().AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	return &takeout, nil
}

// ExportUserData collects the user's aggregates into one JSON object and
// uploads it as a timestamped takeout archive. Returns the object name.
func (s *ExportService) ExportUserData(ctx context.Context, userID uint) (string, error) {
	takeout, err := s.collectTakeout(userID)
	if err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(takeout, "", "  ")
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("takeouts/user-%d-%s.json", userID, time.Now().UTC().Format("20060102T150405Z"))
	_, err = s.Client.PutObject(ctx, s.Cfg.MinioBucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}
