package models

type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"` // null when not set
	UserID      int     `json:"user_id"`
	Completed   bool    `json:"completed"`
}

// OwnedTask is a task joined with its owner, as listed to admins.
type OwnedTask struct {
	Task
	OwnerEmail string `json:"email"`
	OwnerName  string `json:"name"`
}

// TaskUpdate is a partial update of a task. Nil fields are left untouched.
// SetDescription distinguishes "clear the description" (Description == nil)
// from "leave it alone".
type TaskUpdate struct {
	Title          *string
	SetDescription bool
	Description    *string
	Completed      *bool
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && !u.SetDescription && u.Completed == nil
}
