package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tasknest/internal/database"
	"tasknest/internal/models"
)

// ReminderRepository handles database operations for reminders
type ReminderRepository struct {
	db database.DBTX
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// CreateReminder inserts a new reminder for a task
func (r *ReminderRepository) CreateReminder(taskID int64, reminderTime time.Time) (*models.Reminder, error) {
	query := `INSERT INTO reminders (task_id, reminder_time) VALUES (?, ?)`
	id, err := r.db.ExecReturningID(query, taskID, reminderTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return &models.Reminder{
		ID:           id,
		TaskID:       taskID,
		ReminderTime: reminderTime,
		IsSent:       false,
		CreatedAt:    time.Now(),
	}, nil
}

// GetReminder retrieves a reminder by ID. Ownership is resolved by the
// caller through the parent task.
func (r *ReminderRepository) GetReminder(reminderID int64) (*models.Reminder, error) {
	query := `SELECT id, task_id, reminder_time, is_sent, created_at FROM reminders WHERE id = ?`
	var rem models.Reminder
	err := r.db.QueryRow(query, reminderID).Scan(&rem.ID, &rem.TaskID, &rem.ReminderTime, &rem.IsSent, &rem.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &rem, nil
}

// ListByTask returns all reminders for a task ordered by time
func (r *ReminderRepository) ListByTask(taskID int64) ([]models.Reminder, error) {
	query := `SELECT id, task_id, reminder_time, is_sent, created_at FROM reminders WHERE task_id = ? ORDER BY reminder_time`
	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(&rem.ID, &rem.TaskID, &rem.ReminderTime, &rem.IsSent, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

// UpdateReminderTime sets a new reminder time and resets the sent flag.
// A rescheduled reminder always becomes eligible for delivery again.
func (r *ReminderRepository) UpdateReminderTime(reminderID int64, reminderTime time.Time) (*models.Reminder, error) {
	query := `UPDATE reminders SET reminder_time = ?, is_sent = ? WHERE id = ?`
	if _, err := r.db.Exec(query, reminderTime, false, reminderID); err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	return r.GetReminder(reminderID)
}

// DeleteReminder deletes a reminder
func (r *ReminderRepository) DeleteReminder(reminderID int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM reminders WHERE id = ?`, reminderID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

// ListUpcoming returns unsent reminders due between now and now+window,
// joined with task detail for owner scoping
func (r *ReminderRepository) ListUpcoming(now time.Time, window time.Duration) ([]models.DueReminder, error) {
	query := `
		SELECT r.id, r.task_id, r.reminder_time, r.is_sent, r.created_at, t.task_name, t.user_id
		FROM reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE r.is_sent = ? AND r.reminder_time BETWEEN ? AND ?
		ORDER BY r.reminder_time
	`
	rows, err := r.db.Query(query, false, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.DueReminder
	for rows.Next() {
		var rem models.DueReminder
		if err := rows.Scan(&rem.ID, &rem.TaskID, &rem.ReminderTime, &rem.IsSent, &rem.CreatedAt, &rem.TaskName, &rem.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

// ListDue returns unsent reminders whose time has passed, for the dispatch loop
func (r *ReminderRepository) ListDue(now time.Time) ([]models.DueReminder, error) {
	query := `
		SELECT r.id, r.task_id, r.reminder_time, r.is_sent, r.created_at, t.task_name, t.user_id
		FROM reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE r.is_sent = ? AND r.reminder_time <= ?
		ORDER BY r.reminder_time
	`
	rows, err := r.db.Query(query, false, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.DueReminder
	for rows.Next() {
		var rem models.DueReminder
		if err := rows.Scan(&rem.ID, &rem.TaskID, &rem.ReminderTime, &rem.IsSent, &rem.CreatedAt, &rem.TaskName, &rem.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

// MarkAsSent records that a reminder has been delivered
func (r *ReminderRepository) MarkAsSent(reminderID int64) error {
	query := `UPDATE reminders SET is_sent = ? WHERE id = ?`
	if _, err := r.db.Exec(query, true, reminderID); err != nil {
		return fmt.Errorf("failed to mark reminder as sent: %w", err)
	}
	return nil
}
