package service

import (
	"tasknest/internal/models"
	"tasknest/internal/repository"
	"tasknest/internal/validation"
)

// CategoryService implements category operations
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a category owned by userID
func (s *CategoryService) CreateCategory(userID int64, name string) (*models.Category, error) {
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, err
	}
	return s.categoryRepo.CreateCategory(userID, name)
}

// GetCategory returns one of the user's categories
func (s *CategoryService) GetCategory(userID, categoryID int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetCategory(categoryID, userID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// ListCategories returns all categories owned by userID
func (s *CategoryService) ListCategories(userID int64) ([]models.Category, error) {
	return s.categoryRepo.ListCategories(userID)
}

// UpdateCategory renames one of the user's categories
func (s *CategoryService) UpdateCategory(userID, categoryID int64, name string) (*models.Category, error) {
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, err
	}
	updated, err := s.categoryRepo.UpdateCategory(categoryID, userID, name)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}
	return s.categoryRepo.GetCategory(categoryID, userID)
}

// DeleteCategory deletes one of the user's categories; task links cascade
// but the tasks themselves survive
func (s *CategoryService) DeleteCategory(userID, categoryID int64) error {
	deleted, err := s.categoryRepo.DeleteCategory(categoryID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// GetCategoryTasks returns the tasks linked to one of the user's categories
func (s *CategoryService) GetCategoryTasks(userID, categoryID int64) ([]models.Task, error) {
	category, err := s.categoryRepo.GetCategory(categoryID, userID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return s.categoryRepo.GetCategoryTasks(categoryID, userID)
}
