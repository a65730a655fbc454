package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
	"teamdesk/internal/cascade"
	"teamdesk/internal/logger"
	"teamdesk/internal/models"
	"teamdesk/internal/notify"
	"teamdesk/internal/repositories"
	"teamdesk/internal/utils"
)

type TeamService interface {
	CreateTeam(ctx context.Context, userID int64, req models.CreateTeamRequest) (*models.Team, error)
	ListMyTeams(ctx context.Context, userID int64) ([]models.TeamSummary, error)

	// GetTeam returns the detail for members. For a non-member it returns
	// a not-found error together with the owner's contact so the caller
	// knows whom to ask for access.
	GetTeam(ctx context.Context, userID int64, teamURL string) (*models.TeamDetail, *models.OwnerContact, error)

	UpdateTeam(ctx context.Context, userID int64, teamURL string, req models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeam(ctx context.Context, userID int64, teamURL string) error

	ListMembers(ctx context.Context, userID int64, teamURL string) ([]models.TeamMember, error)
	AddMember(ctx context.Context, userID int64, teamURL string, req models.AddMemberRequest) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, userID int64, teamURL string, targetID int64) error
	ChangeRole(ctx context.Context, userID int64, teamURL string, targetID int64, newRole string) error
}

type teamService struct {
	teams         repositories.TeamRepository
	users         repositories.UserRepository
	cascades      repositories.CascadeRepository
	notifications repositories.NotificationRepository
	email         notify.EmailSender
}

func NewTeamService(
	teams repositories.TeamRepository,
	users repositories.UserRepository,
	cascades repositories.CascadeRepository,
	notifications repositories.NotificationRepository,
	email notify.EmailSender,
) TeamService {
	return &teamService{
		teams:         teams,
		users:         users,
		cascades:      cascades,
		notifications: notifications,
		email:         email,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, userID int64, req models.CreateTeamRequest) (*models.Team, error) {
	exists, err := s.teams.ExistsByNameAndCreator(ctx, req.Name, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.Conflict("you already have a team with this name")
	}

	url, err := utils.NewShareURL()
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	team := &models.Team{
		Name:      req.Name,
		URL:       url,
		CreatedBy: userID,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.teams.AddMember(ctx, models.Membership{
		UserID: userID,
		TeamID: team.ID,
		Role:   authz.RoleOwner.String(),
	}); err != nil {
		return nil, apperrors.Internal(err)
	}
	return team, nil
}

func (s *teamService) ListMyTeams(ctx context.Context, userID int64) ([]models.TeamSummary, error) {
	teams, err := s.teams.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return teams, nil
}

// resolveTeam loads the team by share URL and the caller's role in it.
func (s *teamService) resolveTeam(ctx context.Context, userID int64, teamURL string) (*models.Team, authz.Role, error) {
	team, err := s.teams.GetByURL(ctx, teamURL)
	if err != nil {
		return nil, authz.RoleNone, apperrors.Internal(err)
	}
	if team == nil {
		return nil, authz.RoleNone, apperrors.NotFound("team not found")
	}
	role, err := s.teams.GetRole(ctx, userID, team.ID)
	if err != nil {
		return nil, authz.RoleNone, apperrors.Internal(err)
	}
	return team, role, nil
}

func (s *teamService) GetTeam(ctx context.Context, userID int64, teamURL string) (*models.TeamDetail, *models.OwnerContact, error) {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.Authorize(role, authz.OpViewTeam); err != nil {
		owner, cerr := s.teams.GetOwnerContact(ctx, team.ID)
		if cerr != nil {
			return nil, nil, apperrors.Internal(cerr)
		}
		return nil, owner, authzError(err)
	}

	members, err := s.teams.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return &models.TeamDetail{
		Team:    *team,
		Role:    role.String(),
		Members: members,
	}, nil, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, userID int64, teamURL string, req models.UpdateTeamRequest) (*models.Team, error) {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpUpdateTeam); err != nil {
		return nil, authzError(err)
	}
	affected, err := s.teams.UpdateName(ctx, team.ID, req.Name)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if affected == 0 {
		return nil, apperrors.NotFound("team not found")
	}
	team.Name = req.Name
	return team, nil
}

// DeleteTeam tears the whole team down: authorization is checked first,
// then every dependent layer is removed bottom-up in one transaction.
func (s *teamService) DeleteTeam(ctx context.Context, userID int64, teamURL string) error {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpDeleteTeam); err != nil {
		return authzError(err)
	}
	if err := s.cascades.Execute(ctx, cascade.PlanTeamDeletion(team.ID)); err != nil {
		return apperrors.Internal(err)
	}
	logger.L().Info("team deleted",
		zap.Int64("team_id", team.ID), zap.Int64("deleted_by", userID))
	return nil
}

func (s *teamService) ListMembers(ctx context.Context, userID int64, teamURL string) ([]models.TeamMember, error) {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpViewTeam); err != nil {
		return nil, authzError(err)
	}
	members, err := s.teams.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return members, nil
}

func (s *teamService) AddMember(ctx context.Context, userID int64, teamURL string, req models.AddMemberRequest) (*models.TeamMember, error) {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(role, authz.OpAddMember); err != nil {
		return nil, authzError(err)
	}

	newRole := req.Role
	if newRole == "" {
		newRole = authz.RoleMember.String()
	}
	if !authz.ValidAssignable(newRole) {
		return nil, apperrors.Validation("role must be admin or member")
	}

	target, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if target == nil {
		return nil, apperrors.NotFound("no user with this email")
	}
	existing, err := s.teams.GetRole(ctx, target.ID, team.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != authz.RoleNone {
		return nil, apperrors.Conflict("user is already a team member")
	}

	if err := s.teams.AddMember(ctx, models.Membership{
		UserID: target.ID,
		TeamID: team.ID,
		Role:   newRole,
	}); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.notifyMemberAdded(ctx, userID, team, target)

	return &models.TeamMember{
		UserID:       target.ID,
		FirstName:    target.FirstName,
		LastName:     target.LastName,
		Email:        target.Email,
		ProfileImage: target.ProfileImage,
		Role:         newRole,
	}, nil
}

func (s *teamService) notifyMemberAdded(ctx context.Context, inviterID int64, team *models.Team, target *models.User) {
	teamID := team.ID
	n := &models.Notification{
		UserID:    target.ID,
		Type:      models.NotifyTeamAdded,
		Title:     "Added to a team",
		Message:   fmt.Sprintf("You were added to the team %q.", team.Name),
		RelatedID: &teamID,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		logger.L().Warn("failed to record team_added notification",
			zap.Int64("user_id", target.ID), zap.Error(err))
	}
	if s.email != nil {
		inviter, err := s.users.GetByID(ctx, inviterID)
		inviterName := "A teammate"
		if err == nil && inviter != nil {
			inviterName = inviter.FullName()
		}
		if err := s.email.SendTeamInvite(target.Email, team.Name, inviterName); err != nil {
			logger.L().Warn("failed to send team invite email",
				zap.String("email", target.Email), zap.Error(err))
		}
	}
}

func (s *teamService) RemoveMember(ctx context.Context, userID int64, teamURL string, targetID int64) error {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpRemoveMember); err != nil {
		return authzError(err)
	}
	targetRole, err := s.teams.GetRole(ctx, targetID, team.ID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if targetRole == authz.RoleNone {
		return apperrors.NotFound("user is not a team member")
	}
	if err := authz.CanRemoveMember(role, targetRole); err != nil {
		return apperrors.Forbidden(err.Error())
	}
	affected, err := s.teams.RemoveMember(ctx, targetID, team.ID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("user is not a team member")
	}
	return nil
}

func (s *teamService) ChangeRole(ctx context.Context, userID int64, teamURL string, targetID int64, newRole string) error {
	team, role, err := s.resolveTeam(ctx, userID, teamURL)
	if err != nil {
		return err
	}
	if err := authz.Authorize(role, authz.OpChangeRole); err != nil {
		return authzError(err)
	}
	targetRole, err := s.teams.GetRole(ctx, targetID, team.ID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if targetRole == authz.RoleNone {
		return apperrors.NotFound("user is not a team member")
	}
	if err := authz.CanChangeRole(role, targetRole, authz.ParseRole(newRole)); err != nil {
		if !authz.ValidAssignable(newRole) {
			return apperrors.Validation("role must be admin or member")
		}
		return apperrors.Forbidden(err.Error())
	}
	affected, err := s.teams.ChangeRole(ctx, targetID, team.ID, newRole)
	if err != nil {
		return apperrors.Internal(err)
	}
	if affected == 0 {
		return apperrors.NotFound("user is not a team member")
	}
	return nil
}
