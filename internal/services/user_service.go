package services

import (
	"context"

	"go.uber.org/zap"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/logger"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error)
	LinkTelegram(ctx context.Context, userID, chatID int64) error
}

type userService struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
}

func NewUserService(users repositories.UserRepository, notifications repositories.NotificationRepository) UserService {
	return &userService{
		users:         users,
		notifications: notifications,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, patch models.ProfilePatch) (*models.User, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("no fields to update")
	}

	affected, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if affected == 0 {
		return nil, apperrors.NotFound("user not found")
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotifyProfileUpdate,
		Title:   "Profile updated",
		Message: "Your profile information was changed.",
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		logger.L().Warn("failed to record profile update notification",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	return s.GetProfile(ctx, userID)
}

func (s *userService) LinkTelegram(ctx context.Context, userID, chatID int64) error {
	if err := s.users.SetTelegramChat(ctx, userID, chatID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
