package services

import (
	"context"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
)

type FileService interface {
	Upload(ctx context.Context, userID, taskID int64, name, mimeType string, data []byte) (*models.TaskFile, error)
	ListByTask(ctx context.Context, userID, taskID int64) ([]models.TaskFile, error)
	Download(ctx context.Context, userID, fileID int64) (*models.FileContent, error)
	Delete(ctx context.Context, userID, fileID int64) error
}

type fileService struct {
	files repositories.FileRepository
	tasks repositories.TaskRepository
	teams repositories.TeamRepository
}

func NewFileService(
	files repositories.FileRepository,
	tasks repositories.TaskRepository,
	teams repositories.TeamRepository,
) FileService {
	return &fileService{
		files: files,
		tasks: tasks,
		teams: teams,
	}
}

func (s *fileService) Upload(ctx context.Context, userID, taskID int64, name, mimeType string, data []byte) (*models.TaskFile, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if task == nil {
		return nil, apperrors.NotFound("task not found")
	}
	role, err := s.tasks.GetRole(ctx, userID, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpUploadFile); err != nil {
		return nil, authzError(err)
	}

	file := &models.TaskFile{
		TaskID:    taskID,
		UserID:    userID,
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
	}
	if err := s.files.Create(ctx, file, data); err != nil {
		return nil, apperrors.Internal(err)
	}
	return file, nil
}

func (s *fileService) ListByTask(ctx context.Context, userID, taskID int64) ([]models.TaskFile, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if task == nil {
		return nil, apperrors.NotFound("task not found")
	}
	role, err := s.tasks.GetRole(ctx, userID, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpViewFile); err != nil {
		return nil, authzError(err)
	}
	files, err := s.files.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return files, nil
}

func (s *fileService) Download(ctx context.Context, userID, fileID int64) (*models.FileContent, error) {
	meta, err := s.files.GetMeta(ctx, fileID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if meta == nil {
		return nil, apperrors.NotFound("file not found")
	}
	role, err := s.teams.GetRole(ctx, userID, meta.TeamID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpViewFile); err != nil {
		return nil, authzError(err)
	}
	content, err := s.files.GetContent(ctx, fileID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if content == nil {
		return nil, apperrors.NotFound("file not found")
	}
	return content, nil
}

// Delete allows the uploader or a team admin/owner to delete.
func (s *fileService) Delete(ctx context.Context, userID, fileID int64) error {
	meta, err := s.files.GetMeta(ctx, fileID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if meta == nil {
		return apperrors.NotFound("file not found")
	}
	role, err := s.teams.GetRole(ctx, userID, meta.TeamID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if role == authz.RoleNone {
		return authzError(authz.ErrNotMember)
	}
	if !authz.CanDeleteFile(role, meta.UploaderID == userID) {
		return authzError(authz.ErrInsufficientRole)
	}
	affected, err := s.files.Delete(ctx, fileID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("file not found")
	}
	return nil
}
