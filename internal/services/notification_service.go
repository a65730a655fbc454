package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/logger"
	"teamdesk/internal/models"
	"teamdesk/internal/notify"
	"teamdesk/internal/repositories"
)

const notificationPageSize = 50

type NotificationService interface {
	List(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	// CheckDue sweeps for unfinished tasks due inside the window and fans
	// out task_due notifications, deduped per user/task over 24 hours.
	// Meant to be hit by an external timer. Returns how many were sent.
	CheckDue(ctx context.Context) (int, error)
}

type notificationService struct {
	notifications repositories.NotificationRepository
	tasks         repositories.TaskRepository
	users         repositories.UserRepository
	email         notify.EmailSender
	telegram      notify.TelegramSender
	dueSoon       time.Duration
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	email notify.EmailSender,
	telegram notify.TelegramSender,
	dueSoon time.Duration,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		tasks:         tasks,
		users:         users,
		email:         email,
		telegram:      telegram,
		dueSoon:       dueSoon,
	}
}

func (s *notificationService) List(ctx context.Context, userID int64, unreadOnly bool) ([]models.Notification, error) {
	out, err := s.notifications.ListByUser(ctx, userID, unreadOnly, notificationPageSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	affected, err := s.notifications.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	affected, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return affected, nil
}

func (s *notificationService) CheckDue(ctx context.Context) (int, error) {
	due, err := s.tasks.ListDueSoonUnnotified(ctx, s.dueSoon)
	if err != nil {
		return 0, apperrors.Internal(err)
	}

	sent := 0
	for _, d := range due {
		taskID := d.TaskID
		message := fmt.Sprintf("The task %q in project %q is due at %s.",
			d.Title, d.ProjectName, d.DueDate.Format(time.RFC3339))
		n := &models.Notification{
			UserID:    d.UserID,
			Type:      models.NotifyTaskDue,
			Title:     "Task due soon",
			Message:   message,
			RelatedID: &taskID,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			logger.L().Warn("failed to record task_due notification",
				zap.Int64("task_id", d.TaskID), zap.Int64("user_id", d.UserID), zap.Error(err))
			continue
		}
		sent++

		s.fanOut(ctx, d, message)
	}
	return sent, nil
}

// fanOut pushes the reminder through the external channels. Failures are
// logged and swallowed: the in-app notification already exists.
func (s *notificationService) fanOut(ctx context.Context, d repositories.DueTask, message string) {
	if s.email != nil {
		user, err := s.users.GetByID(ctx, d.UserID)
		if err == nil && user != nil {
			if err := s.email.SendDueReminder(user.Email, d.Title, d.ProjectName); err != nil {
				logger.L().Warn("failed to send due reminder email",
					zap.Int64("user_id", d.UserID), zap.Error(err))
			}
		}
	}
	if s.telegram != nil && d.TelegramChat != nil {
		if err := s.telegram.SendMessage(*d.TelegramChat, message); err != nil {
			logger.L().Warn("failed to send telegram reminder",
				zap.Int64("user_id", d.UserID), zap.Error(err))
		}
	}
}
