package models

import "time"

// TaskStatus values are kanban columns. No transition order is enforced:
// any permitted updater may set any status at any time.
type TaskStatus int

const (
	StatusTodo       TaskStatus = 0
	StatusInProgress TaskStatus = 1
	StatusDone       TaskStatus = 2
)

func (s TaskStatus) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

type TaskPriority int

const (
	PriorityLow    TaskPriority = 1
	PriorityMedium TaskPriority = 2
	PriorityHigh   TaskPriority = 3
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          int64        `json:"task_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ProjectID   int64        `json:"project_id"`
	CreatedBy   int64        `json:"create_by"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"create_at"`
	UpdatedAt   time.Time    `json:"update_at"`
}

// Assignee is a user assigned to a task.
type Assignee struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TaskSummary is a task as listed within a project.
type TaskSummary struct {
	Task
	Assignees    []Assignee `json:"assignees"`
	CommentCount int        `json:"comment_count"`
}

// TaskPatch is a typed partial update. Only non-nil fields are written;
// the repository compiles it into a single dynamic UPDATE.
type TaskPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *time.Time    `json:"due_date"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil
}

// TouchesText reports whether the patch edits title or description, which
// require an elevated role.
func (p TaskPatch) TouchesText() bool {
	return p.Title != nil || p.Description != nil
}

type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     *time.Time   `json:"due_date"`
	AssignedTo  []int64      `json:"assigned_to"`
}

type AssignRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}
