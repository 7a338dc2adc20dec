package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"tasknest/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Users        []UserBackup     `json:"users"`
	Categories   []CategoryBackup `json:"categories"`
	Tasks        []TaskBackup     `json:"tasks"`
	TaskLinks    []TaskLinkBackup `json:"task_category_links"`
	Reminders    []ReminderBackup `json:"reminders"`
}

// UserBackup represents a user record for backup. Reset tokens are not
// exported; any pending reset is invalidated by a restore.
type UserBackup struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryBackup represents a category record for backup
type CategoryBackup struct {
	ID           int64     `json:"id"`
	CategoryName string    `json:"category_name"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskBackup represents a task record for backup
type TaskBackup struct {
	ID          int64      `json:"id"`
	TaskName    string     `json:"task_name"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskLinkBackup represents a task/category link for backup
type TaskLinkBackup struct {
	TaskID     int64 `json:"task_id"`
	CategoryID int64 `json:"category_id"`
}

// ReminderBackup represents a reminder record for backup
type ReminderBackup struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	ReminderTime time.Time `json:"reminder_time"`
	IsSent       bool      `json:"is_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportCategories(backup); err != nil {
		return fmt.Errorf("failed to export categories: %w", err)
	}
	if err := s.exportTasks(backup); err != nil {
		return fmt.Errorf("failed to export tasks: %w", err)
	}
	if err := s.exportTaskLinks(backup); err != nil {
		return fmt.Errorf("failed to export task links: %w", err)
	}
	if err := s.exportReminders(backup); err != nil {
		return fmt.Errorf("failed to export reminders: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d users, %d categories, %d tasks, %d links, %d reminders",
		len(backup.Users), len(backup.Categories), len(backup.Tasks),
		len(backup.TaskLinks), len(backup.Reminders))

	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// All tables restore inside one transaction; a failure part-way through
	// must not leave a half-imported database
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	// Import in order of dependencies
	if err := s.importUsers(tx, backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importCategories(tx, backup.Categories); err != nil {
		return fmt.Errorf("failed to import categories: %w", err)
	}
	if err := s.importTasks(tx, backup.Tasks); err != nil {
		return fmt.Errorf("failed to import tasks: %w", err)
	}
	if err := s.importTaskLinks(tx, backup.TaskLinks); err != nil {
		return fmt.Errorf("failed to import task links: %w", err)
	}
	if err := s.importReminders(tx, backup.Reminders); err != nil {
		return fmt.Errorf("failed to import reminders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := `SELECT id, first_name, last_name, username, email, hashed_password, COALESCE(bio, ''), created_at, updated_at FROM users ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.HashedPassword, &u.Bio, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportCategories(backup *BackupData) error {
	query := `SELECT id, category_name, user_id, created_at, updated_at FROM categories ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryBackup
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
		backup.Categories = append(backup.Categories, c)
	}
	return rows.Err()
}

func (s *BackupService) exportTasks(backup *BackupData) error {
	query := `SELECT id, task_name, COALESCE(description, ''), due_date, status, priority, user_id, created_at, updated_at FROM tasks ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t TaskBackup
		if err := rows.Scan(&t.ID, &t.TaskName, &t.Description, &t.DueDate, &t.Status, &t.Priority, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		backup.Tasks = append(backup.Tasks, t)
	}
	return rows.Err()
}

func (s *BackupService) exportTaskLinks(backup *BackupData) error {
	query := `SELECT task_id, category_id FROM tasks_categories ORDER BY task_id, category_id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l TaskLinkBackup
		if err := rows.Scan(&l.TaskID, &l.CategoryID); err != nil {
			return err
		}
		backup.TaskLinks = append(backup.TaskLinks, l)
	}
	return rows.Err()
}

func (s *BackupService) exportReminders(backup *BackupData) error {
	query := `SELECT id, task_id, reminder_time, is_sent, created_at FROM reminders ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r ReminderBackup
		if err := rows.Scan(&r.ID, &r.TaskID, &r.ReminderTime, &r.IsSent, &r.CreatedAt); err != nil {
			return err
		}
		backup.Reminders = append(backup.Reminders, r)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(tx database.DBTX, users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		query := `INSERT INTO users (id, first_name, last_name, username, email, hashed_password, bio, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, u.ID, u.FirstName, u.LastName, u.Username, u.Email, u.HashedPassword, u.Bio, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importCategories(tx database.DBTX, categories []CategoryBackup) error {
	log.Printf("Importing %d categories...", len(categories))
	for _, c := range categories {
		query := `INSERT INTO categories (id, category_name, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, c.ID, c.CategoryName, c.UserID, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import category %d: %w", c.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importTasks(tx database.DBTX, tasks []TaskBackup) error {
	log.Printf("Importing %d tasks...", len(tasks))
	for _, t := range tasks {
		query := `INSERT INTO tasks (id, task_name, description, due_date, status, priority, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, t.ID, t.TaskName, t.Description, t.DueDate, t.Status, t.Priority, t.UserID, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import task %d: %w", t.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importTaskLinks(tx database.DBTX, links []TaskLinkBackup) error {
	log.Printf("Importing %d task links...", len(links))
	for _, l := range links {
		query := `INSERT INTO tasks_categories (task_id, category_id) VALUES (?, ?)`
		_, err := tx.Exec(query, l.TaskID, l.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to import link task=%d category=%d: %w", l.TaskID, l.CategoryID, err)
		}
	}
	return nil
}

func (s *BackupService) importReminders(tx database.DBTX, reminders []ReminderBackup) error {
	log.Printf("Importing %d reminders...", len(reminders))
	for _, r := range reminders {
		query := `INSERT INTO reminders (id, task_id, reminder_time, is_sent, created_at) VALUES (?, ?, ?, ?, ?)`
		_, err := tx.Exec(query, r.ID, r.TaskID, r.ReminderTime, r.IsSent, r.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import reminder %d: %w", r.ID, err)
		}
	}
	return nil
}
