package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allOps = []Operation{
	OpViewTeam, OpUpdateTeam, OpDeleteTeam, OpAddMember, OpRemoveMember,
	OpChangeRole, OpCreateProject, OpViewProject, OpUpdateProject,
	OpDeleteProject, OpManageParticipants, OpViewTask, OpCreateTask,
	OpUpdateTaskMeta, OpEditTaskText, OpDeleteTask, OpAssignTask,
	OpViewComments, OpCreateComment, OpLikeComment, OpUploadFile,
	OpViewFile, OpMarkNotification,
}

func TestOwnerAllowsEverything(t *testing.T) {
	for _, op := range allOps {
		assert.NoError(t, Authorize(RoleOwner, op), "op %d", op)
	}
}

func TestNonMemberDeniedEverything(t *testing.T) {
	for _, op := range allOps {
		err := Authorize(RoleNone, op)
		require.Error(t, err, "op %d", op)
		assert.ErrorIs(t, err, ErrNotMember, "op %d", op)
	}
}

func TestAuthorizeThresholds(t *testing.T) {
	cases := []struct {
		op     Operation
		member bool
		admin  bool
	}{
		{OpViewTeam, true, true},
		{OpUpdateTeam, false, true},
		{OpDeleteTeam, false, true},
		{OpAddMember, false, true},
		{OpRemoveMember, false, true},
		{OpChangeRole, false, false},
		{OpCreateProject, false, true},
		{OpViewProject, true, true},
		{OpUpdateProject, false, true},
		{OpDeleteProject, false, true},
		{OpManageParticipants, false, true},
		{OpViewTask, true, true},
		{OpCreateTask, true, true},
		{OpUpdateTaskMeta, true, true},
		{OpEditTaskText, false, true},
		{OpDeleteTask, true, true},
		{OpAssignTask, true, true},
		{OpViewComments, true, true},
		{OpCreateComment, true, true},
		{OpLikeComment, true, true},
		{OpUploadFile, true, true},
		{OpViewFile, true, true},
		{OpMarkNotification, true, true},
	}
	require.Len(t, cases, len(allOps))

	for _, tc := range cases {
		memberErr := Authorize(RoleMember, tc.op)
		adminErr := Authorize(RoleAdmin, tc.op)
		if tc.member {
			assert.NoError(t, memberErr, "member op %d", tc.op)
		} else {
			assert.ErrorIs(t, memberErr, ErrInsufficientRole, "member op %d", tc.op)
		}
		if tc.admin {
			assert.NoError(t, adminErr, "admin op %d", tc.op)
		} else {
			assert.ErrorIs(t, adminErr, ErrInsufficientRole, "admin op %d", tc.op)
		}
	}
}

func TestCanRemoveMemberOwnerInvariant(t *testing.T) {
	// Nobody removes the owner, including the owner.
	assert.Error(t, CanRemoveMember(RoleAdmin, RoleOwner))
	assert.Error(t, CanRemoveMember(RoleOwner, RoleOwner))

	assert.NoError(t, CanRemoveMember(RoleAdmin, RoleMember))
	assert.NoError(t, CanRemoveMember(RoleAdmin, RoleAdmin))
	assert.NoError(t, CanRemoveMember(RoleOwner, RoleAdmin))

	// Members cannot remove anyone.
	assert.ErrorIs(t, CanRemoveMember(RoleMember, RoleMember), ErrInsufficientRole)
	assert.ErrorIs(t, CanRemoveMember(RoleNone, RoleMember), ErrNotMember)
}

func TestCanChangeRoleOwnerInvariant(t *testing.T) {
	// Only the owner changes roles at all.
	assert.ErrorIs(t, CanChangeRole(RoleAdmin, RoleMember, RoleAdmin), ErrInsufficientRole)
	assert.ErrorIs(t, CanChangeRole(RoleMember, RoleMember, RoleAdmin), ErrInsufficientRole)

	assert.NoError(t, CanChangeRole(RoleOwner, RoleMember, RoleAdmin))
	assert.NoError(t, CanChangeRole(RoleOwner, RoleAdmin, RoleMember))

	// The owner role is neither granted nor taken.
	assert.Error(t, CanChangeRole(RoleOwner, RoleOwner, RoleMember))
	assert.Error(t, CanChangeRole(RoleOwner, RoleMember, RoleOwner))
	assert.Error(t, CanChangeRole(RoleOwner, RoleMember, RoleNone))
}

func TestCanDeleteComment(t *testing.T) {
	assert.True(t, CanDeleteComment(RoleMember, true, false), "author")
	assert.True(t, CanDeleteComment(RoleMember, false, true), "task creator")
	assert.True(t, CanDeleteComment(RoleAdmin, false, false), "admin")
	assert.True(t, CanDeleteComment(RoleOwner, false, false), "owner")
	assert.False(t, CanDeleteComment(RoleMember, false, false), "unrelated member")
	assert.False(t, CanDeleteComment(RoleNone, true, true), "non-member")
}

func TestCanDeleteFile(t *testing.T) {
	assert.True(t, CanDeleteFile(RoleMember, true), "uploader")
	assert.True(t, CanDeleteFile(RoleAdmin, false), "admin")
	assert.True(t, CanDeleteFile(RoleOwner, false), "owner")
	assert.False(t, CanDeleteFile(RoleMember, false), "unrelated member")
	assert.False(t, CanDeleteFile(RoleNone, true), "non-member")
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleOwner, ParseRole("owner"))
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleMember, ParseRole("member"))
	assert.Equal(t, RoleNone, ParseRole(""))
	assert.Equal(t, RoleNone, ParseRole("something else"))
}

func TestValidAssignable(t *testing.T) {
	assert.True(t, ValidAssignable("admin"))
	assert.True(t, ValidAssignable("member"))
	assert.False(t, ValidAssignable("owner"))
	assert.False(t, ValidAssignable(""))
}
