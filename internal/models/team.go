package models

import "time"

type Team struct {
	ID        int64     `json:"team_id"`
	Name      string    `json:"team_name"`
	URL       string    `json:"team_url"`
	CreatedBy int64     `json:"create_by"`
	CreatedAt time.Time `json:"create_at"`
}

// TeamSummary is a team as seen in the caller's team list.
type TeamSummary struct {
	Team
	Role         string `json:"role"`
	ProjectCount int    `json:"project_count"`
}

// TeamDetail is a team with the caller's role and the member list.
type TeamDetail struct {
	Team
	Role    string       `json:"role"`
	Members []TeamMember `json:"members"`
}

// Membership is one belong row.
type Membership struct {
	UserID int64  `json:"user_id"`
	TeamID int64  `json:"team_id"`
	Role   string `json:"role"`
}

// TeamMember is a membership joined with user display fields.
type TeamMember struct {
	UserID       int64   `json:"user_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profile_image,omitempty"`
	Role         string  `json:"role"`
}

// OwnerContact is returned with denied team/project detail responses so a
// locked-out user knows whom to ask for access.
type OwnerContact struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type CreateTeamRequest struct {
	Name string `json:"team_name" binding:"required"`
}

type UpdateTeamRequest struct {
	Name string `json:"team_name" binding:"required"`
}

type AddMemberRequest struct {
	Email string `json:"user_email" binding:"required,email"`
	Role  string `json:"role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
