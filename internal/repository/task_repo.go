package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tasknest/internal/database"
	"tasknest/internal/models"
)

// TaskRepository handles database operations for tasks and their category links
type TaskRepository struct {
	db database.DBTX
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, task_name, COALESCE(description, ''), due_date, status, priority, user_id, created_at, updated_at`

// sortColumns whitelists the columns a task listing may be ordered by
var sortColumns = map[string]bool{
	"task_name":  true,
	"due_date":   true,
	"status":     true,
	"priority":   true,
	"created_at": true,
}

func scanTaskRow(scan func(dest ...interface{}) error) (*models.Task, error) {
	task := &models.Task{}
	err := scan(
		&task.ID,
		&task.TaskName,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.Priority,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask inserts a new task owned by userID
func (r *TaskRepository) CreateTask(userID int64, name, description string, dueDate *time.Time, status, priority string) (*models.Task, error) {
	query := `
		INSERT INTO tasks (task_name, description, due_date, status, priority, user_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, name, description, dueDate, status, priority, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &models.Task{
		ID:          id,
		TaskName:    name,
		Description: description,
		DueDate:     dueDate,
		Status:      status,
		Priority:    priority,
		UserID:      userID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// GetTask retrieves a task by ID scoped to its owner. Returns nil when the
// task does not exist or belongs to another user.
func (r *TaskRepository) GetTask(taskID, userID int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`
	task, err := scanTaskRow(r.db.QueryRow(query, taskID, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// GetTaskOwner returns the owner ID of a task, or false when the task does not exist
func (r *TaskRepository) GetTaskOwner(taskID int64) (int64, bool, error) {
	var ownerID int64
	err := r.db.QueryRow(`SELECT user_id FROM tasks WHERE id = ?`, taskID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get task owner: %w", err)
	}
	return ownerID, true, nil
}

// ListTasks returns all tasks for a user, narrowed and ordered by filters.
// Sort column and direction are validated against whitelists; anything else
// falls back to created_at ascending.
func (r *TaskRepository) ListTasks(userID int64, filters models.TaskFilters) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []interface{}{userID}

	if filters.Status != "" {
		query += ` AND status = ?`
		args = append(args, filters.Status)
	}

	if filters.DueDate != "" {
		query += ` AND DATE(due_date) = DATE(?)`
		args = append(args, filters.DueDate)
	}

	sortBy := "created_at"
	if sortColumns[filters.SortBy] {
		sortBy = filters.SortBy
	}
	sortDir := "ASC"
	if filters.SortDir == "DESC" || filters.SortDir == "desc" {
		sortDir = "DESC"
	}
	query += ` ORDER BY ` + sortBy + ` ` + sortDir

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTaskRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask updates a task's fields scoped to its owner
func (r *TaskRepository) UpdateTask(taskID, userID int64, name, description string, dueDate *time.Time, status, priority string) (bool, error) {
	query := `
		UPDATE tasks
		SET task_name = ?, description = ?, due_date = ?, status = ?, priority = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.Exec(query, name, description, dueDate, status, priority, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return rows > 0, nil
}

// DeleteTask deletes a task scoped to its owner; reminders and category
// links cascade
func (r *TaskRepository) DeleteTask(taskID, userID int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

// AddToCategory links a task to a category
func (r *TaskRepository) AddToCategory(taskID, categoryID int64) error {
	query := `INSERT INTO tasks_categories (task_id, category_id) VALUES (?, ?)`
	if _, err := r.db.Exec(query, taskID, categoryID); err != nil {
		return fmt.Errorf("failed to add task to category: %w", err)
	}
	return nil
}

// RemoveFromCategory unlinks a task from a category
func (r *TaskRepository) RemoveFromCategory(taskID, categoryID int64) error {
	query := `DELETE FROM tasks_categories WHERE task_id = ? AND category_id = ?`
	if _, err := r.db.Exec(query, taskID, categoryID); err != nil {
		return fmt.Errorf("failed to remove task from category: %w", err)
	}
	return nil
}

// GetTaskCategories returns the categories a task is linked to
func (r *TaskRepository) GetTaskCategories(taskID int64) ([]models.Category, error) {
	query := `
		SELECT c.id, c.category_name, c.user_id, c.created_at, c.updated_at
		FROM categories c
		JOIN tasks_categories tc ON c.id = tc.category_id
		WHERE tc.task_id = ?
		ORDER BY c.category_name
	`
	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
