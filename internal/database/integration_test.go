package database

import (
	"context"
	"path/filepath"
	"testing"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "integration_test.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Tables created by the initial migration
	tables := []string{"users", "categories", "tasks", "tasks_categories", "reminders"}
	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Migrations are recorded and do not run twice
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count == 0 {
		t.Error("Expected recorded migrations")
	}
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var again int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&again); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if again != count {
		t.Errorf("Migrations re-ran: %d -> %d", count, again)
	}
}

// TestCascadeDelete verifies that owned rows disappear with their user
func TestCascadeDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "cascade_test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userID, err := db.ExecReturningID(
		`INSERT INTO users (first_name, last_name, username, email, hashed_password) VALUES (?, ?, ?, ?, ?)`,
		"Test", "User", "cascade", "cascade@example.com", "hash")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	taskID, err := db.ExecReturningID(
		`INSERT INTO tasks (task_name, user_id) VALUES (?, ?)`, "doomed", userID)
	if err != nil {
		t.Fatalf("Failed to insert task: %v", err)
	}
	categoryID, err := db.ExecReturningID(
		`INSERT INTO categories (category_name, user_id) VALUES (?, ?)`, "doomed", userID)
	if err != nil {
		t.Fatalf("Failed to insert category: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO tasks_categories (task_id, category_id) VALUES (?, ?)`, taskID, categoryID); err != nil {
		t.Fatalf("Failed to link task: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO reminders (task_id, reminder_time) VALUES (?, CURRENT_TIMESTAMP)`, taskID); err != nil {
		t.Fatalf("Failed to insert reminder: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM users WHERE id = ?`, userID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	for _, table := range []string{"tasks", "categories", "tasks_categories", "reminders"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("Failed to count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("Table %s still has %d rows after user delete", table, count)
		}
	}
}

// TestTransactions tests the transaction wrapper
func TestTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "tx_test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO users (first_name, last_name, username, email, hashed_password) VALUES (?, ?, ?, ?, ?)`,
		"Tx", "User", "txuser", "tx@example.com", "hash"); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", "txuser").Scan(&count); err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user after commit, got %d", count)
	}

	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	if _, err := tx2.Exec(
		`INSERT INTO users (first_name, last_name, username, email, hashed_password) VALUES (?, ?, ?, ?, ?)`,
		"Rolled", "Back", "rollback", "rb@example.com", "hash"); err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", "rollback").Scan(&count); err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}
