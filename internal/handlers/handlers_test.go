package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tasknest/internal/database"
	"tasknest/internal/repository"
	"tasknest/internal/service"
)

// newTestServer builds the full route table over a throwaway SQLite database
func newTestServer(t *testing.T) (*httptest.Server, *repository.UserRepository) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "handlers_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	emailService, err := service.NewEmailService("", "", "", "http://localhost:3000", false)
	if err != nil {
		t.Fatalf("Failed to create email service: %v", err)
	}

	guard := service.NewOwnershipGuard(taskRepo, categoryRepo, reminderRepo)
	authService := service.NewAuthService(userRepo, emailService, []byte("handler-test-secret"), 24*time.Hour, time.Hour)
	taskService := service.NewTaskService(taskRepo, reminderRepo, guard)
	categoryService := service.NewCategoryService(categoryRepo)
	reminderService := service.NewReminderService(reminderRepo, userRepo, emailService, guard)

	middleware := NewMiddleware(authService)
	userHandler := NewUserHandler(authService, false)
	taskHandler := NewTaskHandler(taskService, false)
	categoryHandler := NewCategoryHandler(categoryService, false)
	reminderHandler := NewReminderHandler(reminderService, false)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", Home)
	mux.HandleFunc("POST /api/users/register", userHandler.Register)
	mux.HandleFunc("POST /api/users/login", userHandler.Login)
	mux.HandleFunc("POST /api/users/forgot-password", userHandler.ForgotPassword)
	mux.HandleFunc("POST /api/users/reset-password/{token}", userHandler.ResetPassword)
	mux.HandleFunc("GET /api/users/profile", middleware.RequireAuth(userHandler.GetProfile))
	mux.HandleFunc("PUT /api/users/profile", middleware.RequireAuth(userHandler.UpdateProfile))
	mux.HandleFunc("PUT /api/users/change-password", middleware.RequireAuth(userHandler.ChangePassword))
	mux.HandleFunc("DELETE /api/users/account", middleware.RequireAuth(userHandler.DeleteAccount))
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(taskHandler.Create))
	mux.HandleFunc("GET /api/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("GET /api/tasks/{id}", middleware.RequireAuth(taskHandler.Get))
	mux.HandleFunc("PUT /api/tasks/{id}", middleware.RequireAuth(taskHandler.Update))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireAuth(taskHandler.Delete))
	mux.HandleFunc("POST /api/tasks/{id}/categories/{categoryID}", middleware.RequireAuth(taskHandler.AddCategory))
	mux.HandleFunc("DELETE /api/tasks/{id}/categories/{categoryID}", middleware.RequireAuth(taskHandler.RemoveCategory))
	mux.HandleFunc("POST /api/categories", middleware.RequireAuth(categoryHandler.Create))
	mux.HandleFunc("GET /api/categories", middleware.RequireAuth(categoryHandler.List))
	mux.HandleFunc("GET /api/categories/{id}", middleware.RequireAuth(categoryHandler.Get))
	mux.HandleFunc("PUT /api/categories/{id}", middleware.RequireAuth(categoryHandler.Update))
	mux.HandleFunc("DELETE /api/categories/{id}", middleware.RequireAuth(categoryHandler.Delete))
	mux.HandleFunc("GET /api/categories/{id}/tasks", middleware.RequireAuth(categoryHandler.GetTasks))
	mux.HandleFunc("POST /api/reminders", middleware.RequireAuth(reminderHandler.Create))
	mux.HandleFunc("GET /api/reminders/task/{taskID}", middleware.RequireAuth(reminderHandler.ListByTask))
	mux.HandleFunc("GET /api/reminders/upcoming", middleware.RequireAuth(reminderHandler.Upcoming))
	mux.HandleFunc("PUT /api/reminders/{id}", middleware.RequireAuth(reminderHandler.Update))
	mux.HandleFunc("DELETE /api/reminders/{id}", middleware.RequireAuth(reminderHandler.Delete))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, userRepo
}

// doJSON issues a request with an optional bearer token and decodes the
// envelope response
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// registerAndLogin creates an account through the API and returns its token
func registerAndLogin(t *testing.T, server *httptest.Server, username, email string) string {
	t.Helper()

	status, body := doJSON(t, server, "POST", "/api/users/register", "", map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"username":   username,
		"email":      email,
		"password":   "Passw0rd",
	})
	if status != http.StatusCreated {
		t.Fatalf("Register returned %d: %v", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("Register response missing token")
	}
	return token
}

func TestHomeEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	status, body := doJSON(t, server, "GET", "/", "", nil)
	if status != http.StatusOK {
		t.Fatalf("GET / returned %d", status)
	}
	if body["success"] != true {
		t.Errorf("Expected success envelope, got %v", body)
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	server, _ := newTestServer(t)
	token := registerAndLogin(t, server, "alice", "alice@example.com")

	status, body := doJSON(t, server, "GET", "/api/users/profile", token, nil)
	if status != http.StatusOK {
		t.Fatalf("GET profile returned %d: %v", status, body)
	}
	user, _ := body["user"].(map[string]interface{})
	if user["username"] != "alice" {
		t.Errorf("Profile username = %v, want alice", user["username"])
	}
	if _, leaked := user["hashed_password"]; leaked {
		t.Error("Password hash leaked in profile response")
	}

	status, body = doJSON(t, server, "POST", "/api/users/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPass1",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("Bad login returned %d: %v", status, body)
	}
	if body["success"] != false {
		t.Errorf("Expected failure envelope, got %v", body)
	}
}

func TestAuthRequired(t *testing.T) {
	server, _ := newTestServer(t)

	for _, tt := range []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, server, "GET", "/api/tasks", tt.token, nil)
			if status != http.StatusUnauthorized {
				t.Errorf("Got %d, want 401", status)
			}
		})
	}
}

func TestPasswordResetOverHTTP(t *testing.T) {
	server, userRepo := newTestServer(t)
	registerAndLogin(t, server, "alice", "alice@example.com")

	status, knownBody := doJSON(t, server, "POST", "/api/users/forgot-password", "", map[string]string{
		"email": "alice@example.com",
	})
	if status != http.StatusOK {
		t.Fatalf("Forgot-password returned %d", status)
	}

	// Unknown address gets the exact same response
	unknownStatus, unknownBody := doJSON(t, server, "POST", "/api/users/forgot-password", "", map[string]string{
		"email": "ghost@example.com",
	})
	if unknownStatus != status || unknownBody["message"] != knownBody["message"] {
		t.Errorf("Forgot-password responses differ between known and unknown addresses")
	}

	// The reset link carries the token; in tests we read it from the store
	user, err := userRepo.GetUserByEmail("alice@example.com")
	if err != nil || user == nil || user.ResetToken == nil {
		t.Fatalf("Expected stored reset token, got user=%v err=%v", user, err)
	}

	// A wrong confirmation is rejected without consuming the token
	status, body := doJSON(t, server, "POST", "/api/users/reset-password/"+*user.ResetToken, "", map[string]string{
		"password":         "NewPass1",
		"confirm_password": "Different9",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("Mismatched confirmation returned %d: %v", status, body)
	}

	// Absent confirmation is a mismatch too
	status, body = doJSON(t, server, "POST", "/api/users/reset-password/"+*user.ResetToken, "", map[string]string{
		"password": "NewPass1",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("Missing confirmation returned %d: %v", status, body)
	}

	status, body = doJSON(t, server, "POST", "/api/users/reset-password/"+*user.ResetToken, "", map[string]string{
		"password":         "NewPass1",
		"confirm_password": "NewPass1",
	})
	if status != http.StatusOK {
		t.Fatalf("Reset-password returned %d: %v", status, body)
	}

	status, _ = doJSON(t, server, "POST", "/api/users/login", "", map[string]string{
		"username": "alice",
		"password": "NewPass1",
	})
	if status != http.StatusOK {
		t.Errorf("Login with reset password returned %d", status)
	}

	status, _ = doJSON(t, server, "POST", "/api/users/reset-password/"+*user.ResetToken, "", map[string]string{
		"password":         "Another1",
		"confirm_password": "Another1",
	})
	if status != http.StatusBadRequest {
		t.Errorf("Reused reset token returned %d, want 400", status)
	}
}

func TestTaskEndpointsOwnership(t *testing.T) {
	server, _ := newTestServer(t)
	aliceToken := registerAndLogin(t, server, "alice", "alice@example.com")
	bobToken := registerAndLogin(t, server, "bob", "bob@example.com")

	status, body := doJSON(t, server, "POST", "/api/tasks", aliceToken, map[string]interface{}{
		"task_name":   "Buy groceries",
		"description": "milk and eggs",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create task returned %d: %v", status, body)
	}
	task, _ := body["task"].(map[string]interface{})
	taskID := int64(task["id"].(float64))

	// Owner reads it back
	status, _ = doJSON(t, server, "GET", fmt.Sprintf("/api/tasks/%d", taskID), aliceToken, nil)
	if status != http.StatusOK {
		t.Errorf("Owner GET returned %d", status)
	}

	// The other user sees 404, never 403
	status, _ = doJSON(t, server, "GET", fmt.Sprintf("/api/tasks/%d", taskID), bobToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("Foreign GET returned %d, want 404", status)
	}
	status, _ = doJSON(t, server, "DELETE", fmt.Sprintf("/api/tasks/%d", taskID), bobToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("Foreign DELETE returned %d, want 404", status)
	}

	// Bad path parameter
	status, _ = doJSON(t, server, "GET", "/api/tasks/abc", aliceToken, nil)
	if status != http.StatusBadRequest {
		t.Errorf("Non-numeric ID returned %d, want 400", status)
	}
}

func TestTaskValidationOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)
	token := registerAndLogin(t, server, "alice", "alice@example.com")

	status, body := doJSON(t, server, "POST", "/api/tasks", token, map[string]interface{}{
		"task_name": "",
	})
	if status != http.StatusBadRequest {
		t.Errorf("Empty task name returned %d: %v", status, body)
	}

	status, _ = doJSON(t, server, "POST", "/api/tasks", token, map[string]interface{}{
		"task_name": "ok",
		"status":    "someday",
	})
	if status != http.StatusBadRequest {
		t.Errorf("Invalid status returned %d", status)
	}
}

func TestCategoryAndReminderEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	token := registerAndLogin(t, server, "alice", "alice@example.com")

	status, body := doJSON(t, server, "POST", "/api/categories", token, map[string]string{
		"category_name": "Errands",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create category returned %d: %v", status, body)
	}
	category, _ := body["category"].(map[string]interface{})
	categoryID := int64(category["id"].(float64))

	status, body = doJSON(t, server, "POST", "/api/tasks", token, map[string]interface{}{
		"task_name": "Post office",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create task returned %d: %v", status, body)
	}
	task, _ := body["task"].(map[string]interface{})
	taskID := int64(task["id"].(float64))

	status, _ = doJSON(t, server, "POST", fmt.Sprintf("/api/tasks/%d/categories/%d", taskID, categoryID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Link task to category returned %d", status)
	}

	status, body = doJSON(t, server, "GET", fmt.Sprintf("/api/categories/%d/tasks", categoryID), token, nil)
	if status != http.StatusOK {
		t.Fatalf("Category tasks returned %d", status)
	}
	tasks, _ := body["tasks"].([]interface{})
	if len(tasks) != 1 {
		t.Errorf("Expected 1 task in category, got %d", len(tasks))
	}

	when := time.Now().Add(30 * time.Minute).UTC().Format(time.RFC3339)
	status, body = doJSON(t, server, "POST", "/api/reminders", token, map[string]interface{}{
		"task_id":       taskID,
		"reminder_time": when,
	})
	if status != http.StatusCreated {
		t.Fatalf("Create reminder returned %d: %v", status, body)
	}

	status, body = doJSON(t, server, "GET", "/api/reminders/upcoming?timeframe=60", token, nil)
	if status != http.StatusOK {
		t.Fatalf("Upcoming reminders returned %d", status)
	}
	reminders, _ := body["reminders"].([]interface{})
	if len(reminders) != 1 {
		t.Errorf("Expected 1 upcoming reminder, got %d", len(reminders))
	}

	status, _ = doJSON(t, server, "GET", "/api/reminders/upcoming?timeframe=-5", token, nil)
	if status != http.StatusBadRequest {
		t.Errorf("Negative timeframe returned %d, want 400", status)
	}
}
