package service

import (
	"americano_backend/internal/model"
	"americano_backend/internal/repository"
	"context"

	"go.uber.org/zap"
)

type UserService struct {
	UserRepo      *repository.UserRepository
	ExportService *ExportService
	Logger        *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, exportService *ExportService, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepo:      userRepo,
		ExportService: exportService,
		Logger:        logger,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Avatar   string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account and every owned analytics row in one
// transaction. When object storage is configured, a takeout archive is
// written first; an export failure aborts the deletion. Anonymized search
// queries carry no user linkage and survive.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return err
	}

	if s.ExportService != nil {
		objectName, err := s.ExportService.ExportUserData(ctx, userID)
		if err != nil {
			return err
		}
		s.Logger.Info("user takeout written before deletion",
			zap.Uint("user_id", userID),
			zap.String("object", objectName))
	}

	return s.UserRepo.DeleteCascade(userID)
}
