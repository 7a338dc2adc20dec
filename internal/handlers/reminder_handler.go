package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tasknest/internal/models"
	"tasknest/internal/service"
)

// ReminderHandler handles reminder endpoints
type ReminderHandler struct {
	reminderService *service.ReminderService
	devDetail       bool
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *service.ReminderService, devDetail bool) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, devDetail: devDetail}
}

// Create handles POST /api/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		TaskID       int64     `json:"task_id"`
		ReminderTime time.Time `json:"reminder_time"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TaskID <= 0 {
		respondError(w, http.StatusBadRequest, "task_id is required")
		return
	}
	if req.ReminderTime.IsZero() {
		respondError(w, http.StatusBadRequest, "reminder_time is required")
		return
	}

	reminder, err := h.reminderService.CreateReminder(claims.UserID, req.TaskID, req.ReminderTime)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusCreated, "reminder created", envelope{"reminder": reminder})
}

// ListByTask handles GET /api/reminders/task/{taskID}
func (h *ReminderHandler) ListByTask(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	reminders, err := h.reminderService.ListTaskReminders(claims.UserID, taskID)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}

	respondSuccess(w, http.StatusOK, "", envelope{"reminders": reminders})
}

// Upcoming handles GET /api/reminders/upcoming?timeframe=minutes
func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	timeframe := 60
	if raw := r.URL.Query().Get("timeframe"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "timeframe must be a positive number of minutes")
			return
		}
		timeframe = parsed
	}

	reminders, err := h.reminderService.Upcoming(claims.UserID, timeframe)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}
	if reminders == nil {
		reminders = []models.DueReminder{}
	}

	respondSuccess(w, http.StatusOK, "", envelope{"reminders": reminders})
}

// Update handles PUT /api/reminders/{id}
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	reminderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		ReminderTime time.Time `json:"reminder_time"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ReminderTime.IsZero() {
		respondError(w, http.StatusBadRequest, "reminder_time is required")
		return
	}

	reminder, err := h.reminderService.UpdateReminder(claims.UserID, reminderID, req.ReminderTime)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "reminder updated", envelope{"reminder": reminder})
}

// Delete handles DELETE /api/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	reminderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.reminderService.DeleteReminder(claims.UserID, reminderID); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "reminder deleted", nil)
}
