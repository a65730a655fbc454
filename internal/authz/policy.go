package authz

import "errors"

// Operation is something a caller wants to do to a team or one of its
// projects/tasks.
type Operation int

const (
	OpViewTeam Operation = iota
	OpUpdateTeam
	OpDeleteTeam
	OpAddMember
	OpRemoveMember
	OpChangeRole
	OpCreateProject
	OpViewProject
	OpUpdateProject
	OpDeleteProject
	OpManageParticipants
	OpViewTask
	OpCreateTask
	OpUpdateTaskMeta // status, priority, due date
	OpEditTaskText   // title, description
	OpDeleteTask
	OpAssignTask
	OpViewComments
	OpCreateComment
	OpLikeComment
	OpUploadFile
	OpViewFile
	OpMarkNotification
)

var (
	// ErrNotMember: the caller has no membership in the owning team. The
	// HTTP layer renders this as 404 so outsiders cannot probe existence.
	ErrNotMember = errors.New("not a team member")
	// ErrInsufficientRole: the caller is a member but the operation needs
	// a higher role. Rendered as 403.
	ErrInsufficientRole = errors.New("insufficient role")
)

// minRole is the operation threshold table. Owner passes everything.
var minRole = map[Operation]Role{
	OpViewTeam:           RoleMember,
	OpUpdateTeam:         RoleAdmin,
	OpDeleteTeam:         RoleAdmin,
	OpAddMember:          RoleAdmin,
	OpRemoveMember:       RoleAdmin,
	OpChangeRole:         RoleOwner,
	OpCreateProject:      RoleAdmin,
	OpViewProject:        RoleMember,
	OpUpdateProject:      RoleAdmin,
	OpDeleteProject:      RoleAdmin,
	OpManageParticipants: RoleAdmin,
	OpViewTask:           RoleMember,
	OpCreateTask:         RoleMember,
	OpUpdateTaskMeta:     RoleMember,
	OpEditTaskText:       RoleAdmin,
	OpDeleteTask:         RoleMember,
	OpAssignTask:         RoleMember,
	OpViewComments:       RoleMember,
	OpCreateComment:      RoleMember,
	OpLikeComment:        RoleMember,
	OpUploadFile:         RoleMember,
	OpViewFile:           RoleMember,
	OpMarkNotification:   RoleMember,
}

// Authorize decides whether role may perform op. It returns nil on allow,
// ErrNotMember when there is no membership at all, and ErrInsufficientRole
// when the membership exists but is below the threshold. Mutators must only
// run after Authorize returned nil.
func Authorize(role Role, op Operation) error {
	if role == RoleNone {
		return ErrNotMember
	}
	min, ok := minRole[op]
	if !ok {
		return ErrInsufficientRole
	}
	if role < min {
		return ErrInsufficientRole
	}
	return nil
}

// CanDeleteComment: comment author, task creator, or team admin/owner.
func CanDeleteComment(role Role, isAuthor, isTaskCreator bool) bool {
	if !role.IsMember() {
		return false
	}
	return isAuthor || isTaskCreator || role.IsElevated()
}

// CanDeleteFile: uploader or team admin/owner.
func CanDeleteFile(role Role, isUploader bool) bool {
	if !role.IsMember() {
		return false
	}
	return isUploader || role.IsElevated()
}

// CanRemoveMember enforces the owner hard invariant on top of the
// OpRemoveMember threshold: the owner can never be removed, by anyone.
func CanRemoveMember(requester, target Role) error {
	if err := Authorize(requester, OpRemoveMember); err != nil {
		return err
	}
	if target == RoleOwner {
		return ErrInsufficientRole
	}
	return nil
}

// CanChangeRole enforces the owner hard invariant on top of the
// OpChangeRole threshold: the owner role can be neither granted nor taken
// away through role changes.
func CanChangeRole(requester, targetCurrent, targetNew Role) error {
	if err := Authorize(requester, OpChangeRole); err != nil {
		return err
	}
	if targetCurrent == RoleOwner || targetNew == RoleOwner {
		return ErrInsufficientRole
	}
	if targetNew != RoleAdmin && targetNew != RoleMember {
		return ErrInsufficientRole
	}
	return nil
}
