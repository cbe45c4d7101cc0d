package entity

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64
	Title       string
	Description *string // nil when the client never set one.
	Completed   bool
	UserID      int64 // Owner. Every read and write is scoped by this value.
	Image       *string
	Drawing     *string
	ImageType   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Image       *string
	Drawing     *string
	ImageType   *string
}

// IsEmpty reports whether the update would change no column besides updated_at.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil &&
		u.Image == nil && u.Drawing == nil && u.ImageType == nil
}
