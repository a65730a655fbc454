package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
	"teamdesk/internal/logger"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
)

type TaskService interface {
	CreateTask(ctx context.Context, userID int64, projectURL string, req models.CreateTaskRequest) (*models.Task, error)
	ListByProject(ctx context.Context, userID int64, projectURL string) ([]models.TaskSummary, error)
	GetTask(ctx context.Context, userID, taskID int64) (*models.TaskSummary, error)
	PatchTask(ctx context.Context, userID, taskID int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error

	SetPayload(ctx context.Context, userID, taskID int64, data []byte) error
	GetPayload(ctx context.Context, userID, taskID int64) ([]byte, error)

	Assign(ctx context.Context, userID, taskID, targetID int64) error
	Unassign(ctx context.Context, userID, taskID, targetID int64) error
}

type taskService struct {
	tasks         repositories.TaskRepository
	projects      repositories.ProjectRepository
	teams         repositories.TeamRepository
	assignments   repositories.AssignmentRepository
	notifications repositories.NotificationRepository
	dueSoon       time.Duration
}

func NewTaskService(
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	teams repositories.TeamRepository,
	assignments repositories.AssignmentRepository,
	notifications repositories.NotificationRepository,
	dueSoon time.Duration,
) TaskService {
	return &taskService{
		tasks:         tasks,
		projects:      projects,
		teams:         teams,
		assignments:   assignments,
		notifications: notifications,
		dueSoon:       dueSoon,
	}
}

func (s *taskService) CreateTask(ctx context.Context, userID int64, projectURL string, req models.CreateTaskRequest) (*models.Task, error) {
	project, err := s.projects.GetByURL(ctx, projectURL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	role, err := s.projects.GetRole(ctx, userID, project.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpCreateTask); err != nil {
		return nil, authzError(err)
	}

	if !req.Status.Valid() {
		return nil, apperrors.Validation("status must be 0, 1 or 2")
	}
	priority := req.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.Validation("priority must be 1, 2 or 3")
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   project.ID,
		CreatedBy:   userID,
		Status:      req.Status,
		Priority:    priority,
		DueDate:     req.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.Internal(err)
	}

	for _, assigneeID := range req.AssignedTo {
		if err := s.assignOne(ctx, task, project, assigneeID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// assignOne links one assignee to the task and, if the deadline is inside
// the due-soon window, records a task_due notification right away.
func (s *taskService) assignOne(ctx context.Context, task *models.Task, project *models.Project, assigneeID int64) error {
	assigneeRole, err := s.teams.GetRole(ctx, assigneeID, project.TeamID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if assigneeRole == authz.RoleNone {
		return apperrors.Validation(fmt.Sprintf("user %d is not a team member", assigneeID))
	}

	exists, err := s.assignments.Exists(ctx, assigneeID, task.ID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if exists {
		return apperrors.Conflict("user is already assigned to this task")
	}
	if err := s.assignments.Assign(ctx, assigneeID, task.ID); err != nil {
		return apperrors.Internal(err)
	}

	if task.DueDate != nil && time.Until(*task.DueDate) <= s.dueSoon {
		taskID := task.ID
		n := &models.Notification{
			UserID:    assigneeID,
			Type:      models.NotifyTaskDue,
			Title:     "Task due soon",
			Message:   fmt.Sprintf("The task %q is due within %d hours.", task.Title, int(s.dueSoon.Hours())),
			RelatedID: &taskID,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			logger.L().Warn("failed to record task_due notification",
				zap.Int64("task_id", task.ID), zap.Int64("user_id", assigneeID), zap.Error(err))
		}
	}
	return nil
}

func (s *taskService) ListByProject(ctx context.Context, userID int64, projectURL string) ([]models.TaskSummary, error) {
	project, err := s.projects.GetByURL(ctx, projectURL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	role, err := s.projects.GetRole(ctx, userID, project.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpViewTask); err != nil {
		return nil, authzError(err)
	}
	tasks, err := s.tasks.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tasks, nil
}

// resolveTask loads the task and the caller's role via task -> project -> team.
func (s *taskService) resolveTask(ctx context.Context, userID, taskID int64) (*models.Task, authz.Role, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, authz.RoleNone, apperrors.Internal(err)
	}
	if task == nil {
		return nil, authz.RoleNone, apperrors.NotFound("task not found")
	}
	role, err := s.tasks.GetRole(ctx, userID, taskID)
	if err != nil {
		return nil, authz.RoleNone, apperrors.Internal(err)
	}
	return task, role, nil
}

func (s *taskService) GetTask(ctx context.Context, userID, taskID int64) (*models.TaskSummary, error) {
	task, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpViewTask); err != nil {
		return nil, authzError(err)
	}
	assignees, err := s.assignments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if assignees == nil {
		assignees = []models.Assignee{}
	}
	return &models.TaskSummary{
		Task:      *task,
		Assignees: assignees,
	}, nil
}

// PatchTask applies a typed partial update. Status, priority and due date
// move at member level; title and description need admin.
func (s *taskService) PatchTask(ctx context.Context, userID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("no fields to update")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.Validation("status must be 0, 1 or 2")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, apperrors.Validation("priority must be 1, 2 or 3")
	}

	_, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	op := authz.OpUpdateTaskMeta
	if patch.TouchesText() {
		op = authz.OpEditTaskText
	}
	if err := authz.Authorize(role, op); err != nil {
		return nil, authzError(err)
	}

	affected, err := s.tasks.ApplyPatch(ctx, taskID, patch)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if affected == 0 {
		return nil, apperrors.NotFound("task not found")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if task == nil {
		return nil, apperrors.NotFound("task not found")
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	_, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpDeleteTask); err != nil {
		return authzError(err)
	}
	affected, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		return apperrors.Internal(err)
	}
	// Two racing deletes: the first wins, the second sees zero rows.
	if affected == 0 {
		return apperrors.NotFound("task not found")
	}
	return nil
}

func (s *taskService) SetPayload(ctx context.Context, userID, taskID int64, data []byte) error {
	_, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpUpdateTaskMeta); err != nil {
		return authzError(err)
	}
	affected, err := s.tasks.SetPayload(ctx, taskID, data)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("task not found")
	}
	return nil
}

func (s *taskService) GetPayload(ctx context.Context, userID, taskID int64) ([]byte, error) {
	_, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpViewTask); err != nil {
		return nil, authzError(err)
	}
	data, err := s.tasks.GetPayload(ctx, taskID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if data == nil {
		return nil, apperrors.NotFound("task has no payload")
	}
	return data, nil
}

func (s *taskService) Assign(ctx context.Context, userID, taskID, targetID int64) error {
	task, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpAssignTask); err != nil {
		return authzError(err)
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if project == nil {
		return apperrors.NotFound("project not found")
	}
	return s.assignOne(ctx, task, project, targetID)
}

func (s *taskService) Unassign(ctx context.Context, userID, taskID, targetID int64) error {
	_, role, err := s.resolveTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpAssignTask); err != nil {
		return authzError(err)
	}
	affected, err := s.assignments.Unassign(ctx, targetID, taskID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("user is not assigned to this task")
	}
	return nil
}
