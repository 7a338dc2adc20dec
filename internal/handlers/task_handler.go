package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tasknest/internal/models"
	"tasknest/internal/service"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService *service.TaskService
	devDetail   bool
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *service.TaskService, devDetail bool) *TaskHandler {
	return &TaskHandler{taskService: taskService, devDetail: devDetail}
}

type taskRequest struct {
	TaskName     string     `json:"task_name"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	CategoryIDs  []int64    `json:"category_ids"`
	ReminderTime *time.Time `json:"reminder_time"`
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(claims.UserID, req.TaskName, req.Description, req.DueDate, req.Status, req.Priority, req.CategoryIDs, req.ReminderTime)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusCreated, "task created", envelope{"task": task})
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(claims.UserID, taskID)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "", envelope{"task": task})
}

// List handles GET /api/tasks with optional status, due_date, sort_by and
// sort_dir query parameters
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	filters := models.TaskFilters{
		Status:  r.URL.Query().Get("status"),
		DueDate: r.URL.Query().Get("due_date"),
		SortBy:  r.URL.Query().Get("sort_by"),
		SortDir: r.URL.Query().Get("sort_dir"),
	}

	tasks, err := h.taskService.ListTasks(claims.UserID, filters)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	respondSuccess(w, http.StatusOK, "", envelope{"tasks": tasks})
}

// Update handles PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(claims.UserID, taskID, req.TaskName, req.Description, req.DueDate, req.Status, req.Priority, req.CategoryIDs)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "task updated", envelope{"task": task})
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(claims.UserID, taskID); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "task deleted", nil)
}

// AddCategory handles POST /api/tasks/{id}/categories/{categoryID}
func (h *TaskHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.taskService.AddToCategory(claims.UserID, taskID, categoryID); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "task added to category", nil)
}

// RemoveCategory handles DELETE /api/tasks/{id}/categories/{categoryID}
func (h *TaskHandler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryID")
	if !ok {
		return
	}

	if err := h.taskService.RemoveFromCategory(claims.UserID, taskID, categoryID); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "task removed from category", nil)
}

// pathID parses a numeric path parameter, reporting a client error on
// anything that is not a positive integer
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
