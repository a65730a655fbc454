package models

import "time"

type Comment struct {
	ID        int64     `json:"comment_id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"comment_text"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment joined with its author's display fields.
type CommentView struct {
	Comment
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"comment_text" binding:"required"`
}
