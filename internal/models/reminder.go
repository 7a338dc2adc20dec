package models

import "time"

// Reminder is a scheduled notification attached to a task. Ownership is
// transitive through the parent task.
type Reminder struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	ReminderTime time.Time `json:"reminder_time"`
	IsSent       bool      `json:"is_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

// DueReminder is a reminder joined with task and owner detail for dispatch
type DueReminder struct {
	Reminder
	TaskName string `json:"task_name"`
	UserID   int64  `json:"user_id"`
}

// IsDue reports whether the reminder should fire at time now
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.IsSent && !r.ReminderTime.After(now)
}
