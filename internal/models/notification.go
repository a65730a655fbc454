package models

import "time"

type NotificationType string

const (
	NotifyTaskDue       NotificationType = "task_due"
	NotifyTeamAdded     NotificationType = "team_added"
	NotifyProfileUpdate NotificationType = "profile_update"
)

type Notification struct {
	ID        int64            `json:"notification_id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID *int64           `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
