package handlers

import "net/http"

// Home handles GET / with a welcome payload doubling as a health check
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}
	respondSuccess(w, http.StatusOK, "TaskNest API is running", envelope{
		"endpoints": envelope{
			"users":      "/api/users",
			"tasks":      "/api/tasks",
			"categories": "/api/categories",
			"reminders":  "/api/reminders",
		},
	})
}
