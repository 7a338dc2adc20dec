package handlers

import (
	"net/http"

	"tasknest/internal/models"
	"tasknest/internal/service"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *service.CategoryService
	devDetail       bool
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService, devDetail bool) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, devDetail: devDetail}
}

type categoryRequest struct {
	CategoryName string `json:"category_name"`
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(claims.UserID, req.CategoryName)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusCreated, "category created", envelope{"category": category})
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(claims.UserID, categoryID)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "", envelope{"category": category})
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	categories, err := h.categoryService.ListCategories(claims.UserID)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	respondSuccess(w, http.StatusOK, "", envelope{"categories": categories})
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(claims.UserID, categoryID, req.CategoryName)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "category updated", envelope{"category": category})
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(claims.UserID, categoryID); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "category deleted", nil)
}

// GetTasks handles GET /api/categories/{id}/tasks
func (h *CategoryHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tasks, err := h.categoryService.GetCategoryTasks(claims.UserID, categoryID)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	respondSuccess(w, http.StatusOK, "", envelope{"tasks": tasks})
}
