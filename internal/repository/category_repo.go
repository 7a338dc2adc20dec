package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tasknest/internal/database"
	"tasknest/internal/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db database.DBTX
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CreateCategory inserts a new category owned by userID
func (r *CategoryRepository) CreateCategory(userID int64, name string) (*models.Category, error) {
	query := `INSERT INTO categories (category_name, user_id) VALUES (?, ?)`
	id, err := r.db.ExecReturningID(query, name, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &models.Category{
		ID:           id,
		CategoryName: name,
		UserID:       userID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// GetCategory retrieves a category by ID scoped to its owner. Returns nil
// when the category does not exist or belongs to another user.
func (r *CategoryRepository) GetCategory(categoryID, userID int64) (*models.Category, error) {
	query := `
		SELECT id, category_name, user_id, created_at, updated_at
		FROM categories
		WHERE id = ? AND user_id = ?
	`
	var c models.Category
	err := r.db.QueryRow(query, categoryID, userID).Scan(&c.ID, &c.CategoryName, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// GetCategoryOwner returns the owner ID of a category, or false when the
// category does not exist
func (r *CategoryRepository) GetCategoryOwner(categoryID int64) (int64, bool, error) {
	var ownerID int64
	err := r.db.QueryRow(`SELECT user_id FROM categories WHERE id = ?`, categoryID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get category owner: %w", err)
	}
	return ownerID, true, nil
}

// ListCategories returns all categories for a user ordered by name
func (r *CategoryRepository) ListCategories(userID int64) ([]models.Category, error) {
	query := `
		SELECT id, category_name, user_id, created_at, updated_at
		FROM categories
		WHERE user_id = ?
		ORDER BY category_name
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
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

// UpdateCategory renames a category scoped to its owner
func (r *CategoryRepository) UpdateCategory(categoryID, userID int64, name string) (bool, error) {
	query := `
		UPDATE categories
		SET category_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.Exec(query, name, categoryID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return rows > 0, nil
}

// DeleteCategory deletes a category scoped to its owner; task links cascade
func (r *CategoryRepository) DeleteCategory(categoryID, userID int64) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

// GetCategoryTasks returns the tasks linked to a category, scoped to the owner
func (r *CategoryRepository) GetCategoryTasks(categoryID, userID int64) ([]models.Task, error) {
	query := `
		SELECT t.id, t.task_name, COALESCE(t.description, ''), t.due_date, t.status, t.priority, t.user_id, t.created_at, t.updated_at
		FROM tasks t
		JOIN tasks_categories tc ON t.id = tc.task_id
		WHERE tc.category_id = ? AND t.user_id = ?
		ORDER BY t.due_date ASC
	`
	rows, err := r.db.Query(query, categoryID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category tasks: %w", err)
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
