package service

import (
	"fmt"

	"tasknest/internal/repository"
)

// ResourceKind tags the resource variants the ownership guard understands
type ResourceKind int

const (
	KindTask ResourceKind = iota
	KindCategory
	KindReminder
)

func (k ResourceKind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindCategory:
		return "category"
	case KindReminder:
		return "reminder"
	}
	return "unknown"
}

// OwnershipGuard resolves the owner of a resource before any read or write
// crosses an ownership boundary. Tasks and categories carry their owner
// directly; reminders resolve through their parent task.
//
// Missing and foreign-owned resources both come back as ErrNotFound, so a
// caller can never probe for the existence of someone else's data.
type OwnershipGuard struct {
	tasks      *repository.TaskRepository
	categories *repository.CategoryRepository
	reminders  *repository.ReminderRepository
}

// NewOwnershipGuard creates an ownership guard over the resource repositories
func NewOwnershipGuard(tasks *repository.TaskRepository, categories *repository.CategoryRepository, reminders *repository.ReminderRepository) *OwnershipGuard {
	return &OwnershipGuard{tasks: tasks, categories: categories, reminders: reminders}
}

// Authorize checks that the resource identified by kind and id belongs to
// userID. Returns nil on success and ErrNotFound when the resource is
// missing or owned by someone else.
func (g *OwnershipGuard) Authorize(userID int64, kind ResourceKind, id int64) error {
	ownerID, exists, err := g.resolveOwner(kind, id)
	if err != nil {
		return err
	}
	if !exists || ownerID != userID {
		return ErrNotFound
	}
	return nil
}

// resolveOwner maps each resource variant to its owner-id lookup
func (g *OwnershipGuard) resolveOwner(kind ResourceKind, id int64) (int64, bool, error) {
	switch kind {
	case KindTask:
		return g.tasks.GetTaskOwner(id)
	case KindCategory:
		return g.categories.GetCategoryOwner(id)
	case KindReminder:
		reminder, err := g.reminders.GetReminder(id)
		if err != nil {
			return 0, false, err
		}
		if reminder == nil {
			return 0, false, nil
		}
		return g.tasks.GetTaskOwner(reminder.TaskID)
	}
	return 0, false, fmt.Errorf("unknown resource kind: %d", kind)
}
