package models

import "time"

// Task statuses
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a single task owned by a user
type Task struct {
	ID          int64      `json:"id"`
	TaskName    string     `json:"task_name"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated on detail/list responses, not stored on the tasks row
	Categories []Category `json:"categories,omitempty"`
	Reminders  []Reminder `json:"reminders,omitempty"`
}

// TaskFilters narrows and orders task listings
type TaskFilters struct {
	Status  string
	DueDate string // date portion, YYYY-MM-DD
	SortBy  string
	SortDir string
}

// ValidStatus reports whether s is a recognized task status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is a recognized task priority
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
