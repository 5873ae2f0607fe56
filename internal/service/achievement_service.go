package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
}

func NewAchievementService(achievementRepo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
	}
}

type AchievementSummary struct {
	Total        int                           `json:"total"`
	ByType       map[model.AchievementType]int `json:"byType"`
	Achievements []model.Achievement           `json:"achievements"`
}

func (s *AchievementService) GetUserAchievements(userID uint) (*AchievementSummary, error) {
	achievements, err := s.AchievementRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.AchievementType]int)
	for _, a := range achievements {
		byType[a.Type]++
	}

	return &AchievementSummary{
		Total:        len(achievements),
		ByType:       byType,
		Achievements: achievements,
	}, nil
}
