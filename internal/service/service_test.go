package service

import (
	"path/filepath"
	"testing"
	"time"

	"tasknest/internal/database"
	"tasknest/internal/repository"
)

const (
	testTokenTTL = 24 * time.Hour
	testResetTTL = time.Hour
)

// testEnv wires services against a throwaway SQLite database
type testEnv struct {
	db        *database.DB
	users     *repository.UserRepository
	tasks     *repository.TaskRepository
	cats      *repository.CategoryRepository
	rems      *repository.ReminderRepository
	auth      *AuthService
	taskSvc   *TaskService
	catSvc    *CategoryService
	remSvc    *ReminderService
	jwtSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "service_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	cats := repository.NewCategoryRepository(db)
	rems := repository.NewReminderRepository(db)

	guard := NewOwnershipGuard(tasks, cats, rems)

	// Email stays disabled so tests never touch SES
	email, err := NewEmailService("", "", "", "http://localhost:8080", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	secret := []byte("test-secret-key-for-service-tests")

	return &testEnv{
		db:        db,
		users:     users,
		tasks:     tasks,
		cats:      cats,
		rems:      rems,
		auth:      NewAuthService(users, email, secret, testTokenTTL, testResetTTL),
		taskSvc:   NewTaskService(tasks, rems, guard),
		catSvc:    NewCategoryService(cats),
		remSvc:    NewReminderService(rems, users, email, guard),
		jwtSecret: secret,
	}
}

// registerUser creates an account and returns its ID
func (env *testEnv) registerUser(t *testing.T, username, email string) int64 {
	t.Helper()
	_, user, err := env.auth.Register(t.Context(), "Test", "User", username, email, "Passw0rd")
	if err != nil {
		t.Fatalf("Failed to register %s: %v", username, err)
	}
	return user.ID
}
