package models

import "time"

type Project struct {
	ID          int64     `json:"project_id"`
	Name        string    `json:"project_name"`
	Description string    `json:"description"`
	URL         string    `json:"project_url"`
	TeamID      int64     `json:"team_id"`
	CreatedBy   int64     `json:"create_by"`
	CreatedAt   time.Time `json:"create_at"`
}

// ProjectSummary is a project as listed within a team, with task counts.
type ProjectSummary struct {
	Project
	TaskCount      int    `json:"task_count"`
	CompletedTasks int    `json:"completed_tasks"`
	CreatorName    string `json:"creator_name"`
}

// ProjectDetail is a project joined with its team and the caller's role.
type ProjectDetail struct {
	Project
	TeamName string `json:"team_name"`
	TeamURL  string `json:"team_url"`
	Role     string `json:"role"`
}

// Participant is an explicit user-to-project link. Participation is a
// separate concept from team membership and gates nothing by itself.
type Participant struct {
	UserID       int64   `json:"user_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type CreateProjectRequest struct {
	Name        string `json:"project_name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string `json:"project_name" binding:"required"`
	Description string `json:"description"`
}

type AddParticipantRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}
