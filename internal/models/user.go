package models

import "time"

type User struct {
	ID           int64      `json:"user_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash *string    `json:"-"` // nil until the signup is completed with a password
	ProfileImage *string    `json:"profile_image,omitempty"`
	Location     *string    `json:"location,omitempty"`
	TelegramChat *int64     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfilePatch carries only the fields the caller wants changed.
type ProfilePatch struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	ProfileImage *string `json:"profile_image"`
	Location     *string `json:"location"`
}

func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.ProfileImage == nil && p.Location == nil
}
