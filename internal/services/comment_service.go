package services

import (
	"context"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
)

type CommentService interface {
	ListByTask(ctx context.Context, userID, taskID int64) ([]models.CommentView, error)
	CreateComment(ctx context.Context, userID, taskID int64, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID int64) error
	LikeComment(ctx context.Context, userID, commentID int64) (int, error)
}

type commentService struct {
	comments repositories.CommentRepository
	tasks    repositories.TaskRepository
	teams    repositories.TeamRepository
}

func NewCommentService(
	comments repositories.CommentRepository,
	tasks repositories.TaskRepository,
	teams repositories.TeamRepository,
) CommentService {
	return &commentService{
		comments: comments,
		tasks:    tasks,
		teams:    teams,
	}
}

func (s *commentService) ListByTask(ctx context.Context, userID, taskID int64) ([]models.CommentView, error) {
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
	if err := authz.Authorize(role, authz.OpViewComments); err != nil {
		return nil, authzError(err)
	}
	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return comments, nil
}

func (s *commentService) CreateComment(ctx context.Context, userID, taskID int64, text string) (*models.Comment, error) {
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
	if err := authz.Authorize(role, authz.OpCreateComment); err != nil {
		return nil, authzError(err)
	}

	comment := &models.Comment{
		TaskID: taskID,
		UserID: userID,
		Text:   text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.Internal(err)
	}
	return comment, nil
}

// DeleteComment allows the comment author, the task creator, or a team
// admin/owner to delete.
func (s *commentService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	meta, err := s.comments.GetMeta(ctx, commentID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if meta == nil {
		return apperrors.NotFound("comment not found")
	}
	role, err := s.teams.GetRole(ctx, userID, meta.TeamID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if role == authz.RoleNone {
		return authzError(authz.ErrNotMember)
	}
	if !authz.CanDeleteComment(role, meta.AuthorID == userID, meta.TaskCreator == userID) {
		return authzError(authz.ErrInsufficientRole)
	}
	affected, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("comment not found")
	}
	return nil
}

func (s *commentService) LikeComment(ctx context.Context, userID, commentID int64) (int, error) {
	meta, err := s.comments.GetMeta(ctx, commentID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	if meta == nil {
		return 0, apperrors.NotFound("comment not found")
	}
	role, err := s.teams.GetRole(ctx, userID, meta.TeamID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpLikeComment); err != nil {
		return 0, authzError(err)
	}
	likes, err := s.comments.Like(ctx, commentID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return likes, nil
}
