package service

import (
	"context"
	"log"
	"time"

	"tasknest/internal/models"
	"tasknest/internal/repository"
)

// ReminderService implements reminder operations and the delivery loop.
// Every operation resolves ownership through the parent task.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	userRepo     *repository.UserRepository
	emailService *EmailService
	guard        *OwnershipGuard
}

// NewReminderService creates a new reminder service
func NewReminderService(reminderRepo *repository.ReminderRepository, userRepo *repository.UserRepository, emailService *EmailService, guard *OwnershipGuard) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		userRepo:     userRepo,
		emailService: emailService,
		guard:        guard,
	}
}

// CreateReminder schedules a reminder on one of the user's tasks
func (s *ReminderService) CreateReminder(userID, taskID int64, reminderTime time.Time) (*models.Reminder, error) {
	if err := s.guard.Authorize(userID, KindTask, taskID); err != nil {
		return nil, err
	}
	return s.reminderRepo.CreateReminder(taskID, reminderTime)
}

// ListTaskReminders returns the reminders on one of the user's tasks
func (s *ReminderService) ListTaskReminders(userID, taskID int64) ([]models.Reminder, error) {
	if err := s.guard.Authorize(userID, KindTask, taskID); err != nil {
		return nil, err
	}
	return s.reminderRepo.ListByTask(taskID)
}

// UpdateReminder reschedules a reminder. The sent flag resets so the new
// time fires even if the old one already did.
func (s *ReminderService) UpdateReminder(userID, reminderID int64, reminderTime time.Time) (*models.Reminder, error) {
	if err := s.guard.Authorize(userID, KindReminder, reminderID); err != nil {
		return nil, err
	}
	return s.reminderRepo.UpdateReminderTime(reminderID, reminderTime)
}

// DeleteReminder removes a reminder
func (s *ReminderService) DeleteReminder(userID, reminderID int64) error {
	if err := s.guard.Authorize(userID, KindReminder, reminderID); err != nil {
		return err
	}
	deleted, err := s.reminderRepo.DeleteReminder(reminderID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Upcoming returns the user's unsent reminders due within the next
// timeframe minutes
func (s *ReminderService) Upcoming(userID int64, timeframeMinutes int) ([]models.DueReminder, error) {
	if timeframeMinutes <= 0 {
		timeframeMinutes = 60
	}
	window := time.Duration(timeframeMinutes) * time.Minute

	all, err := s.reminderRepo.ListUpcoming(time.Now(), window)
	if err != nil {
		return nil, err
	}

	var mine []models.DueReminder
	for _, rem := range all {
		if rem.UserID == userID {
			mine = append(mine, rem)
		}
	}
	return mine, nil
}

// DispatchDue delivers every reminder whose time has passed and marks it
// sent. Failed sends are logged and retried on the next tick.
func (s *ReminderService) DispatchDue(ctx context.Context) error {
	due, err := s.reminderRepo.ListDue(time.Now())
	if err != nil {
		return err
	}

	for _, rem := range due {
		user, err := s.userRepo.GetUserByID(rem.UserID)
		if err != nil {
			log.Printf("Reminder dispatch: failed to load user %d: %v", rem.UserID, err)
			continue
		}
		if user == nil {
			// Owner deleted between the query and the send; cascade will
			// have removed the reminder already
			continue
		}

		if s.emailService != nil && s.emailService.IsEnabled() {
			if err := s.emailService.SendReminderEmail(ctx, user.Email, user.FirstName, rem.TaskName, rem.ReminderTime); err != nil {
				log.Printf("Reminder dispatch: failed to send reminder %d to %s: %v", rem.ID, user.Email, err)
				continue
			}
		}

		if err := s.reminderRepo.MarkAsSent(rem.ID); err != nil {
			log.Printf("Reminder dispatch: failed to mark reminder %d sent: %v", rem.ID, err)
		}
	}

	return nil
}

// StartDispatchLoop runs DispatchDue every interval until ctx is cancelled
func (s *ReminderService) StartDispatchLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Reminder dispatch loop started (interval %s)", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder dispatch loop stopped")
			return
		case <-ticker.C:
			if err := s.DispatchDue(ctx); err != nil {
				log.Printf("Reminder dispatch failed: %v", err)
			}
		}
	}
}
