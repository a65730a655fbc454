package authz

// Role is a user's authorization level within a team. Projects and tasks
// inherit the role from their owning team.
type Role int

const (
	RoleNone Role = iota // no membership row: distinct from lowest privilege
	RoleMember
	RoleAdmin
	RoleOwner
)

const (
	roleOwnerName  = "owner"
	roleAdminName  = "admin"
	roleMemberName = "member"
)

// ParseRole maps a stored role string to a Role. Unknown strings map to
// RoleNone.
func ParseRole(s string) Role {
	switch s {
	case roleOwnerName:
		return RoleOwner
	case roleAdminName:
		return RoleAdmin
	case roleMemberName:
		return RoleMember
	default:
		return RoleNone
	}
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return roleOwnerName
	case RoleAdmin:
		return roleAdminName
	case RoleMember:
		return roleMemberName
	default:
		return "none"
	}
}

// IsMember reports whether the role represents any membership at all.
func (r Role) IsMember() bool { return r != RoleNone }

// IsElevated reports whether the role is admin or owner.
func (r Role) IsElevated() bool { return r == RoleAdmin || r == RoleOwner }

// ValidAssignable reports whether s names a role that can be granted to a
// member. Owner is excluded: there is exactly one owner, fixed at team
// creation.
func ValidAssignable(s string) bool {
	return s == roleAdminName || s == roleMemberName
}
