package services

import (
	"context"

	"go.uber.org/zap"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
	"teamdesk/internal/cascade"
	"teamdesk/internal/logger"
	"teamdesk/internal/models"
	"teamdesk/internal/repositories"
	"teamdesk/internal/utils"
)

type ProjectService interface {
	CreateProject(ctx context.Context, userID int64, teamURL string, req models.CreateProjectRequest) (*models.Project, error)
	ListByTeam(ctx context.Context, userID int64, teamURL string) ([]models.ProjectSummary, error)

	// GetProject mirrors TeamService.GetTeam: non-members get a not-found
	// error plus the owning team's owner contact.
	GetProject(ctx context.Context, userID int64, projectURL string) (*models.ProjectDetail, *models.OwnerContact, error)

	UpdateProject(ctx context.Context, userID int64, projectURL string, req models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, userID int64, projectURL string) error

	ListParticipants(ctx context.Context, userID int64, projectURL string) ([]models.Participant, error)
	AddParticipant(ctx context.Context, userID int64, projectURL string, targetID int64) error
	RemoveParticipant(ctx context.Context, userID int64, projectURL string, targetID int64) error
}

type projectService struct {
	projects repositories.ProjectRepository
	teams    repositories.TeamRepository
	cascades repositories.CascadeRepository
}

func NewProjectService(
	projects repositories.ProjectRepository,
	teams repositories.TeamRepository,
	cascades repositories.CascadeRepository,
) ProjectService {
	return &projectService{
		projects: projects,
		teams:    teams,
		cascades: cascades,
	}
}

func (s *projectService) CreateProject(ctx context.Context, userID int64, teamURL string, req models.CreateProjectRequest) (*models.Project, error) {
	team, err := s.teams.GetByURL(ctx, teamURL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if team == nil {
		return nil, apperrors.NotFound("team not found")
	}
	role, err := s.teams.GetRole(ctx, userID, team.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpCreateProject); err != nil {
		return nil, authzError(err)
	}

	url, err := utils.NewShareURL()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		URL:         url,
		TeamID:      team.ID,
		CreatedBy:   userID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.Internal(err)
	}
	return project, nil
}

func (s *projectService) ListByTeam(ctx context.Context, userID int64, teamURL string) ([]models.ProjectSummary, error) {
	team, err := s.teams.GetByURL(ctx, teamURL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if team == nil {
		return nil, apperrors.NotFound("team not found")
	}
	role, err := s.teams.GetRole(ctx, userID, team.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := authz.Authorize(role, authz.OpViewProject); err != nil {
		return nil, authzError(err)
	}
	projects, err := s.projects.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return projects, nil
}

// resolveProject loads the project by share URL and the caller's role via
// the owning team.
func (s *projectService) resolveProject(ctx context.Context, userID int64, projectURL string) (*models.Project, authz.Role, error) {
	project, err := s.projects.GetByURL(ctx, projectURL)
	if err != nil {
		return nil, authz.RoleNone, apperrors.Internal(err)
	}
	if project == nil {
		return nil, authz.RoleNone, apperrors.NotFound("project not found")
	}
	role, err := s.projects.GetRole(ctx, userID, project.ID)
	if err != nil {
		return nil, authz.RoleNone, apperrors.Internal(err)
	}
	return project, role, nil
}

func (s *projectService) GetProject(ctx context.Context, userID int64, projectURL string) (*models.ProjectDetail, *models.OwnerContact, error) {
	project, role, err := s.resolveProject(ctx, userID, projectURL)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.Authorize(role, authz.OpViewProject); err != nil {
		owner, cerr := s.teams.GetOwnerContact(ctx, project.TeamID)
		if cerr != nil {
			return nil, nil, apperrors.Internal(cerr)
		}
		return nil, owner, authzError(err)
	}

	team, err := s.teams.GetByID(ctx, project.TeamID)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	detail := &models.ProjectDetail{
		Project: *project,
		Role:    role.String(),
	}
	if team != nil {
		detail.TeamName = team.Name
		detail.TeamURL = team.URL
	}
	return detail, nil, nil
}

func (s *projectService) UpdateProject(ctx context.Context, userID int64, projectURL string, req models.UpdateProjectRequest) (*models.Project, error) {
	project, role, err := s.resolveProject(ctx, userID, projectURL)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpUpdateProject); err != nil {
		return nil, authzError(err)
	}
	affected, err := s.projects.Update(ctx, project.ID, req.Name, req.Description)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if affected == 0 {
		return nil, apperrors.NotFound("project not found")
	}
	project.Name = req.Name
	project.Description = req.Description
	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, userID int64, projectURL string) error {
	project, role, err := s.resolveProject(ctx, userID, projectURL)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpDeleteProject); err != nil {
		return authzError(err)
	}
	if err := s.cascades.Execute(ctx, cascade.PlanProjectDeletion(project.ID)); err != nil {
		return apperrors.Internal(err)
	}
	logger.L().Info("project deleted",
		zap.Int64("project_id", project.ID), zap.Int64("deleted_by", userID))
	return nil
}

func (s *projectService) ListParticipants(ctx context.Context, userID int64, projectURL string) ([]models.Participant, error) {
	project, role, err := s.resolveProject(ctx, userID, projectURL)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpViewProject); err != nil {
		return nil, authzError(err)
	}
	participants, err := s.projects.ListParticipants(ctx, project.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return participants, nil
}

func (s *projectService) AddParticipant(ctx context.Context, userID int64, projectURL string, targetID int64) error {
	project, role, err := s.resolveProject(ctx, userID, projectURL)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpManageParticipants); err != nil {
		return authzError(err)
	}
	targetRole, err := s.teams.GetRole(ctx, targetID, project.TeamID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if targetRole == authz.RoleNone {
		return apperrors.Validation("user must be a team member first")
	}
	already, err := s.projects.IsParticipant(ctx, targetID, project.ID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if already {
		return apperrors.Conflict("user is already a participant")
	}
	if err := s.projects.AddParticipant(ctx, targetID, project.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *projectService) RemoveParticipant(ctx context.Context, userID int64, projectURL string, targetID int64) error {
	project, role, err := s.resolveProject(ctx, userID, projectURL)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpManageParticipants); err != nil {
		return authzError(err)
	}
	affected, err := s.projects.RemoveParticipant(ctx, targetID, project.ID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("user is not a participant")
	}
	return nil
}
