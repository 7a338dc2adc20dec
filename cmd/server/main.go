package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tasknest/internal/config"
	"tasknest/internal/database"
	"tasknest/internal/handlers"
	"tasknest/internal/repository"
	"tasknest/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	guard := service.NewOwnershipGuard(taskRepo, categoryRepo, reminderRepo)
	authService := service.NewAuthService(userRepo, emailService, []byte(cfg.JWTSecret), cfg.TokenDuration, cfg.ResetTokenDuration)
	taskService := service.NewTaskService(taskRepo, reminderRepo, guard)
	categoryService := service.NewCategoryService(categoryRepo)
	reminderService := service.NewReminderService(reminderRepo, userRepo, emailService, guard)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Initialize handlers
	devDetail := cfg.IsDevelopment()
	middleware := handlers.NewMiddleware(authService)
	userHandler := handlers.NewUserHandler(authService, devDetail)
	taskHandler := handlers.NewTaskHandler(taskService, devDetail)
	categoryHandler := handlers.NewCategoryHandler(categoryService, devDetail)
	reminderHandler := handlers.NewReminderHandler(reminderService, devDetail)
	oauthHandler := handlers.NewOAuthHandler(authService, oauthProviders, cfg.OAuthRedirectBase, devDetail)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", handlers.Home)

	// Public user routes
	mux.HandleFunc("POST /api/users/register", userHandler.Register)
	mux.HandleFunc("POST /api/users/login", userHandler.Login)
	mux.HandleFunc("POST /api/users/forgot-password", userHandler.ForgotPassword)
	mux.HandleFunc("POST /api/users/reset-password/{token}", userHandler.ResetPassword)
	mux.HandleFunc("GET /auth/{provider}/start", oauthHandler.Start)
	mux.HandleFunc("GET /auth/{provider}/callback", oauthHandler.Callback)

	// Protected user routes
	mux.HandleFunc("GET /api/users/profile", middleware.RequireAuth(userHandler.GetProfile))
	mux.HandleFunc("PUT /api/users/profile", middleware.RequireAuth(userHandler.UpdateProfile))
	mux.HandleFunc("PUT /api/users/change-password", middleware.RequireAuth(userHandler.ChangePassword))
	mux.HandleFunc("DELETE /api/users/account", middleware.RequireAuth(userHandler.DeleteAccount))

	// Task routes
	mux.HandleFunc("POST /api/tasks", middleware.RequireAuth(taskHandler.Create))
	mux.HandleFunc("GET /api/tasks", middleware.RequireAuth(taskHandler.List))
	mux.HandleFunc("GET /api/tasks/{id}", middleware.RequireAuth(taskHandler.Get))
	mux.HandleFunc("PUT /api/tasks/{id}", middleware.RequireAuth(taskHandler.Update))
	mux.HandleFunc("DELETE /api/tasks/{id}", middleware.RequireAuth(taskHandler.Delete))
	mux.HandleFunc("POST /api/tasks/{id}/categories/{categoryID}", middleware.RequireAuth(taskHandler.AddCategory))
	mux.HandleFunc("DELETE /api/tasks/{id}/categories/{categoryID}", middleware.RequireAuth(taskHandler.RemoveCategory))

	// Category routes
	mux.HandleFunc("POST /api/categories", middleware.RequireAuth(categoryHandler.Create))
	mux.HandleFunc("GET /api/categories", middleware.RequireAuth(categoryHandler.List))
	mux.HandleFunc("GET /api/categories/{id}", middleware.RequireAuth(categoryHandler.Get))
	mux.HandleFunc("PUT /api/categories/{id}", middleware.RequireAuth(categoryHandler.Update))
	mux.HandleFunc("DELETE /api/categories/{id}", middleware.RequireAuth(categoryHandler.Delete))
	mux.HandleFunc("GET /api/categories/{id}/tasks", middleware.RequireAuth(categoryHandler.GetTasks))

	// Reminder routes
	mux.HandleFunc("POST /api/reminders", middleware.RequireAuth(reminderHandler.Create))
	mux.HandleFunc("GET /api/reminders/task/{taskID}", middleware.RequireAuth(reminderHandler.ListByTask))
	mux.HandleFunc("GET /api/reminders/upcoming", middleware.RequireAuth(reminderHandler.Upcoming))
	mux.HandleFunc("PUT /api/reminders/{id}", middleware.RequireAuth(reminderHandler.Update))
	mux.HandleFunc("DELETE /api/reminders/{id}", middleware.RequireAuth(reminderHandler.Delete))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background reminder dispatch
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	go reminderService.StartDispatchLoop(dispatchCtx, cfg.ReminderInterval)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	stopDispatch()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
