package service

import (
	"time"

	"tasknest/internal/models"
	"tasknest/internal/repository"
	"tasknest/internal/validation"
)

// TaskService implements task operations on top of the repositories. All
// cross-resource access goes through the ownership guard.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	reminderRepo *repository.ReminderRepository
	guard        *OwnershipGuard
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo *repository.TaskRepository, reminderRepo *repository.ReminderRepository, guard *OwnershipGuard) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		reminderRepo: reminderRepo,
		guard:        guard,
	}
}

// CreateTask creates a task, optionally linking categories and scheduling an
// initial reminder in the same call
func (s *TaskService) CreateTask(userID int64, name, description string, dueDate *time.Time, status, priority string, categoryIDs []int64, reminderTime *time.Time) (*models.Task, error) {
	if err := validation.ValidateTaskName(name); err != nil {
		return nil, err
	}
	if status == "" {
		status = models.StatusPending
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidStatus(status) {
		return nil, validation.ValidationError{Field: "status", Message: "status must be pending, in_progress, or completed"}
	}
	if !models.ValidPriority(priority) {
		return nil, validation.ValidationError{Field: "priority", Message: "priority must be low, medium, or high"}
	}

	// Category links are authorized before the task exists so a bad ID
	// fails the whole request rather than leaving a half-linked task
	for _, categoryID := range categoryIDs {
		if err := s.guard.Authorize(userID, KindCategory, categoryID); err != nil {
			return nil, err
		}
	}

	task, err := s.taskRepo.CreateTask(userID, name, description, dueDate, status, priority)
	if err != nil {
		return nil, err
	}

	for _, categoryID := range categoryIDs {
		if err := s.taskRepo.AddToCategory(task.ID, categoryID); err != nil {
			return nil, err
		}
	}

	if reminderTime != nil {
		if _, err := s.reminderRepo.CreateReminder(task.ID, *reminderTime); err != nil {
			return nil, err
		}
	}

	return s.GetTask(userID, task.ID)
}

// GetTask returns a task with its categories and reminders attached
func (s *TaskService) GetTask(userID, taskID int64) (*models.Task, error) {
	task, err := s.taskRepo.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	if err := s.enrich(task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks returns the user's tasks narrowed by filters, each with its
// categories and reminders attached
func (s *TaskService) ListTasks(userID int64, filters models.TaskFilters) ([]models.Task, error) {
	if filters.Status != "" && !models.ValidStatus(filters.Status) {
		return nil, validation.ValidationError{Field: "status", Message: "status must be pending, in_progress, or completed"}
	}

	tasks, err := s.taskRepo.ListTasks(userID, filters)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if err := s.enrich(&tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// UpdateTask replaces a task's fields and synchronizes its category links
// when categoryIDs is non-nil
func (s *TaskService) UpdateTask(userID, taskID int64, name, description string, dueDate *time.Time, status, priority string, categoryIDs []int64) (*models.Task, error) {
	if err := validation.ValidateTaskName(name); err != nil {
		return nil, err
	}
	if !models.ValidStatus(status) {
		return nil, validation.ValidationError{Field: "status", Message: "status must be pending, in_progress, or completed"}
	}
	if !models.ValidPriority(priority) {
		return nil, validation.ValidationError{Field: "priority", Message: "priority must be low, medium, or high"}
	}

	if categoryIDs != nil {
		for _, categoryID := range categoryIDs {
			if err := s.guard.Authorize(userID, KindCategory, categoryID); err != nil {
				return nil, err
			}
		}
	}

	updated, err := s.taskRepo.UpdateTask(taskID, userID, name, description, dueDate, status, priority)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}

	if categoryIDs != nil {
		if err := s.syncCategories(taskID, categoryIDs); err != nil {
			return nil, err
		}
	}

	return s.GetTask(userID, taskID)
}

// DeleteTask deletes a task; reminders and category links cascade
func (s *TaskService) DeleteTask(userID, taskID int64) error {
	deleted, err := s.taskRepo.DeleteTask(taskID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// AddToCategory links a task to a category. Both sides of the link must
// belong to the caller.
func (s *TaskService) AddToCategory(userID, taskID, categoryID int64) error {
	if err := s.guard.Authorize(userID, KindTask, taskID); err != nil {
		return err
	}
	if err := s.guard.Authorize(userID, KindCategory, categoryID); err != nil {
		return err
	}

	categories, err := s.taskRepo.GetTaskCategories(taskID)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return nil
		}
	}

	return s.taskRepo.AddToCategory(taskID, categoryID)
}

// RemoveFromCategory unlinks a task from a category. Both sides of the link
// must belong to the caller.
func (s *TaskService) RemoveFromCategory(userID, taskID, categoryID int64) error {
	if err := s.guard.Authorize(userID, KindTask, taskID); err != nil {
		return err
	}
	if err := s.guard.Authorize(userID, KindCategory, categoryID); err != nil {
		return err
	}
	return s.taskRepo.RemoveFromCategory(taskID, categoryID)
}

// enrich attaches categories and reminders to a task
func (s *TaskService) enrich(task *models.Task) error {
	categories, err := s.taskRepo.GetTaskCategories(task.ID)
	if err != nil {
		return err
	}
	task.Categories = categories

	reminders, err := s.reminderRepo.ListByTask(task.ID)
	if err != nil {
		return err
	}
	task.Reminders = reminders
	return nil
}

// syncCategories makes the task's category links match want exactly
func (s *TaskService) syncCategories(taskID int64, want []int64) error {
	current, err := s.taskRepo.GetTaskCategories(taskID)
	if err != nil {
		return err
	}

	wanted := make(map[int64]bool, len(want))
	for _, id := range want {
		wanted[id] = true
	}
	existing := make(map[int64]bool, len(current))
	for _, c := range current {
		existing[c.ID] = true
		if !wanted[c.ID] {
			if err := s.taskRepo.RemoveFromCategory(taskID, c.ID); err != nil {
				return err
			}
		}
	}
	for _, id := range want {
		if !existing[id] {
			if err := s.taskRepo.AddToCategory(taskID, id); err != nil {
				return err
			}
		}
	}
	return nil
}
