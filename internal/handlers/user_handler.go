package handlers

import (
	"net/http"

	"tasknest/internal/service"
)

// UserHandler handles account and authentication endpoints
type UserHandler struct {
	authService *service.AuthService
	devDetail   bool
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService, devDetail bool) *UserHandler {
	return &UserHandler{authService: authService, devDetail: devDetail}
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.authService.Register(r.Context(), req.FirstName, req.LastName, req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusCreated, "user registered successfully", envelope{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "login successful", envelope{
		"token": token,
		"user":  user,
	})
}

// ForgotPassword handles POST /api/users/forgot-password. The response is
// identical whether or not the address matches an account.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "if that email address is registered, a reset link has been sent", nil)
}

// ResetPassword handles POST /api/users/reset-password/{token}
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	// Mismatched confirmation is rejected before the token is consumed
	if req.Password != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	if err := h.authService.ResetPassword(token, req.Password); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "password has been reset", nil)
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	user, err := h.authService.GetProfile(claims.UserID)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "", envelope{"user": user})
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Bio       string `json:"bio"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(claims.UserID, req.FirstName, req.LastName, req.Email, req.Bio)
	if err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "profile updated", envelope{"user": user})
}

// ChangePassword handles PUT /api/users/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "password changed", nil)
}

// DeleteAccount handles DELETE /api/users/account
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	if err := h.authService.DeleteAccount(claims.UserID); err != nil {
		handleServiceError(w, err, h.devDetail)
		return
	}

	respondSuccess(w, http.StatusOK, "account deleted", nil)
}
