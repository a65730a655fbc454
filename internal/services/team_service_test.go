package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
	"teamdesk/internal/cascade"
	"teamdesk/internal/models"
)

type teamFixture struct {
	users         *fakeUserRepo
	teams         *fakeTeamRepo
	cascades      *fakeCascadeRepo
	notifications *fakeNotificationRepo
	email         *fakeEmailSender
	svc           TeamService
}

func newTeamFixture() *teamFixture {
	users := newFakeUserRepo()
	teams := newFakeTeamRepo(users)
	cascades := &fakeCascadeRepo{}
	notifications := newFakeNotificationRepo()
	email := &fakeEmailSender{}
	return &teamFixture{
		users:         users,
		teams:         teams,
		cascades:      cascades,
		notifications: notifications,
		email:         email,
		svc:           NewTeamService(teams, users, cascades, notifications, email),
	}
}

func TestCreateTeamMakesCreatorOwner(t *testing.T) {
	f := newTeamFixture()
	creator := f.users.add("Ada", "Lovelace", "ada@example.com")

	team, err := f.svc.CreateTeam(context.Background(), creator.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Len(t, team.URL, 16)

	role, err := f.teams.GetRole(context.Background(), creator.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleOwner, role)
}

func TestCreateTeamDuplicateNameSameCreatorConflicts(t *testing.T) {
	f := newTeamFixture()
	creator := f.users.add("Ada", "Lovelace", "ada@example.com")
	other := f.users.add("Grace", "Hopper", "grace@example.com")

	_, err := f.svc.CreateTeam(context.Background(), creator.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)

	_, err = f.svc.CreateTeam(context.Background(), creator.ID, models.CreateTeamRequest{Name: "analytics"})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.Status(err))

	// Same name under a different creator is fine.
	_, err = f.svc.CreateTeam(context.Background(), other.ID, models.CreateTeamRequest{Name: "analytics"})
	assert.NoError(t, err)
}

func TestGetTeamDeniedReturnsOwnerContact(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")
	outsider := f.users.add("Eve", "Outsider", "eve@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)

	detail, contact, err := f.svc.GetTeam(context.Background(), outsider.ID, team.URL)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Status(err))
	assert.Nil(t, detail)
	require.NotNil(t, contact)
	assert.Equal(t, owner.ID, contact.UserID)
	assert.Equal(t, "ada@example.com", contact.Email)
}

func TestUpdateTeamRequiresAdmin(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")
	member := f.users.add("Bob", "Member", "bob@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)
	require.NoError(t, f.teams.AddMember(context.Background(), models.Membership{
		UserID: member.ID, TeamID: team.ID, Role: "member",
	}))

	before := f.teams.updates
	_, err = f.svc.UpdateTeam(context.Background(), member.ID, team.URL, models.UpdateTeamRequest{Name: "renamed"})
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.Status(err))
	// Denied requests never reach the mutator.
	assert.Equal(t, before, f.teams.updates)

	updated, err := f.svc.UpdateTeam(context.Background(), owner.ID, team.URL, models.UpdateTeamRequest{Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestDeleteTeamRunsCascade(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTeam(context.Background(), owner.ID, team.URL))
	require.Len(t, f.cascades.executed, 1)
	plan := f.cascades.executed[0]
	assert.Equal(t, cascade.ScopeTeam, plan.Scope)
	assert.Equal(t, team.ID, plan.RootID)
}

func TestDeleteTeamDeniedForOutsiderWithoutCascade(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")
	outsider := f.users.add("Eve", "Outsider", "eve@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)

	err = f.svc.DeleteTeam(context.Background(), outsider.ID, team.URL)
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.Status(err))
	assert.Empty(t, f.cascades.executed)
}

func TestAddMemberByEmailNotifies(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")
	invitee := f.users.add("Bob", "Member", "bob@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)

	added, err := f.svc.AddMember(context.Background(), owner.ID, team.URL, models.AddMemberRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, invitee.ID, added.UserID)
	assert.Equal(t, "member", added.Role)

	added2 := f.notifications.byType(models.NotifyTeamAdded)
	require.Len(t, added2, 1)
	assert.Equal(t, invitee.ID, added2[0].UserID)
	assert.Equal(t, []string{"bob@example.com"}, f.email.invites)

	// Adding again is a conflict.
	_, err = f.svc.AddMember(context.Background(), owner.ID, team.URL, models.AddMemberRequest{Email: "bob@example.com"})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.Status(err))
}

func TestOwnerCanNeverBeRemoved(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")
	admin := f.users.add("Alice", "Admin", "alice@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)
	require.NoError(t, f.teams.AddMember(context.Background(), models.Membership{
		UserID: admin.ID, TeamID: team.ID, Role: "admin",
	}))

	err = f.svc.RemoveMember(context.Background(), admin.ID, team.URL, owner.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.Status(err))

	role, _ := f.teams.GetRole(context.Background(), owner.ID, team.ID)
	assert.Equal(t, authz.RoleOwner, role)

	// An admin removing a plain member works.
	member := f.users.add("Bob", "Member", "bob@example.com")
	require.NoError(t, f.teams.AddMember(context.Background(), models.Membership{
		UserID: member.ID, TeamID: team.ID, Role: "member",
	}))
	require.NoError(t, f.svc.RemoveMember(context.Background(), admin.ID, team.URL, member.ID))
}

func TestChangeRoleOwnerOnlyAndOwnerUntouchable(t *testing.T) {
	f := newTeamFixture()
	owner := f.users.add("Ada", "Lovelace", "ada@example.com")
	admin := f.users.add("Alice", "Admin", "alice@example.com")
	member := f.users.add("Bob", "Member", "bob@example.com")

	team, err := f.svc.CreateTeam(context.Background(), owner.ID, models.CreateTeamRequest{Name: "analytics"})
	require.NoError(t, err)
	require.NoError(t, f.teams.AddMember(context.Background(), models.Membership{
		UserID: admin.ID, TeamID: team.ID, Role: "admin",
	}))
	require.NoError(t, f.teams.AddMember(context.Background(), models.Membership{
		UserID: member.ID, TeamID: team.ID, Role: "member",
	}))

	// Admins cannot change roles.
	err = f.svc.ChangeRole(context.Background(), admin.ID, team.URL, member.ID, "admin")
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.Status(err))

	// The owner can promote a member.
	require.NoError(t, f.svc.ChangeRole(context.Background(), owner.ID, team.URL, member.ID, "admin"))
	role, _ := f.teams.GetRole(context.Background(), member.ID, team.ID)
	assert.Equal(t, authz.RoleAdmin, role)

	// Nobody can grant owner.
	err = f.svc.ChangeRole(context.Background(), owner.ID, team.URL, member.ID, "owner")
	require.Error(t, err)

	// The owner's own role is untouchable.
	err = f.svc.ChangeRole(context.Background(), owner.ID, team.URL, owner.ID, "member")
	require.Error(t, err)
	role, _ = f.teams.GetRole(context.Background(), owner.ID, team.ID)
	assert.Equal(t, authz.RoleOwner, role)
}
