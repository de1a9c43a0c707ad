package domain

import "time"

// Task is a single todo item owned by its author. Ownership is the only
// access-control dimension in the system.
type Task struct {
	ID        string
	Text      string
	Completed bool
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
