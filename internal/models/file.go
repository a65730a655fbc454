package models

import "time"

// TaskFile is an attachment's metadata. Content is fetched separately and
// treated as an opaque blob end to end.
type TaskFile struct {
	ID        int64     `json:"file_id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// FileContent is a blob plus the headers needed to serve it.
type FileContent struct {
	Name     string
	MimeType string
	Data     []byte
}
