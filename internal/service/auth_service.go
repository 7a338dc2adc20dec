package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tasknest/internal/auth"
	"tasknest/internal/models"
	"tasknest/internal/repository"
	"tasknest/internal/security"
	"tasknest/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidResetToken  = errors.New("invalid or expired password reset token")
)

// AuthService handles registration, login, token issuance, and the
// password reset lifecycle
type AuthService struct {
	userRepo      *repository.UserRepository
	emailService  *EmailService
	jwtSecret     []byte
	tokenDuration time.Duration
	resetDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, emailService *EmailService, jwtSecret []byte, tokenDuration, resetDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		emailService:  emailService,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		resetDuration: resetDuration,
	}
}

// Register creates a new user account and issues a session token
func (s *AuthService) Register(ctx context.Context, firstName, lastName, username, email, password string) (string, *models.User, error) {
	if err := validation.ValidateName("first_name", firstName); err != nil {
		return "", nil, err
	}
	if err := validation.ValidateName("last_name", lastName); err != nil {
		return "", nil, err
	}
	if err := validation.ValidateUsername(username); err != nil {
		return "", nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return "", nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", nil, err
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return "", nil, ErrUsernameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(firstName, lastName, username, email, passwordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.IssueToken(user.ID, user.Username, s.jwtSecret, s.tokenDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.emailService != nil && s.emailService.IsEnabled() {
		if err := s.emailService.SendWelcomeEmail(ctx, user.Email, user.FirstName); err != nil {
			// Registration already succeeded; a failed welcome email is not fatal
			log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return token, user, nil
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.IssueToken(user.ID, user.Username, s.jwtSecret, s.tokenDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

// VerifyToken validates a session token and returns its identity claims
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	return auth.VerifyToken(token, s.jwtSecret)
}

// RequestPasswordReset stores a fresh single-use reset token for the account
// registered under email and dispatches it by mail. Unknown addresses are a
// silent no-op so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	// Overwrites any previous token; only the latest one is ever valid
	expiresAt := time.Now().Add(s.resetDuration)
	if err := s.userRepo.StoreResetToken(user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if s.emailService != nil && s.emailService.IsEnabled() {
		if err := s.emailService.SendPasswordResetEmail(ctx, user.Email, user.FirstName, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	return nil
}

// ResetPassword consumes a reset token and sets a new password. The token
// and its expiry are cleared in the same update as the password change.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to get user by reset token: %w", err)
	}
	if user == nil {
		// Never-existed and expired tokens are indistinguishable here
		return ErrInvalidResetToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ResetPassword(user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

// ChangePassword verifies the current password and replaces it
func (s *AuthService) ChangePassword(userID int64, currentPassword, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}

	if !security.CheckPassword(currentPassword, user.HashedPassword) {
		return ErrWrongPassword
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetProfile returns the account for userID
func (s *AuthService) GetProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile updates the mutable profile fields and returns the result
func (s *AuthService) UpdateProfile(userID int64, firstName, lastName, email, bio string) (*models.User, error) {
	if err := validation.ValidateName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("last_name", lastName); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if err := s.userRepo.UpdateProfile(userID, firstName, lastName, email, bio); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.userRepo.GetUserByID(userID)
}

// DeleteAccount removes the account; owned resources cascade in the store
func (s *AuthService) DeleteAccount(userID int64) error {
	deleted, err := s.userRepo.DeleteUser(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// OAuthLogin finds or provisions the account for an external identity and
// issues the same session token as a password login
func (s *AuthService) OAuthLogin(ctx context.Context, email, name string) (string, *models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	if user == nil {
		firstName, lastName := splitDisplayName(name, email)

		username, err := s.availableUsername(email)
		if err != nil {
			return "", nil, err
		}

		// OAuth accounts still get a password hash so the schema invariants
		// hold; the value is random and never disclosed
		randomHash, err := security.HashPassword(security.GenerateStateToken())
		if err != nil {
			return "", nil, fmt.Errorf("failed to generate password hash: %w", err)
		}

		user, err = s.userRepo.CreateUser(firstName, lastName, username, email, randomHash)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create user: %w", err)
		}

		if s.emailService != nil && s.emailService.IsEnabled() {
			if err := s.emailService.SendWelcomeEmail(ctx, user.Email, user.FirstName); err != nil {
				log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
			}
		}
	}

	token, err := auth.IssueToken(user.ID, user.Username, s.jwtSecret, s.tokenDuration)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

// availableUsername derives a username from the email local part, adding a
// numeric suffix until it is free
func (s *AuthService) availableUsername(email string) (string, error) {
	base := strings.Split(email, "@")[0]
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, base)
	if len(base) < 3 {
		base = base + "_user"
	}
	if len(base) > 40 {
		base = base[:40]
	}

	candidate := base
	for i := 1; ; i++ {
		existing, err := s.userRepo.GetUserByUsername(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

// splitDisplayName breaks an OAuth display name into first/last parts,
// falling back to the email local part
func splitDisplayName(name, email string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return padName(parts[0]), padName(parts[0])
	}
	return padName(parts[0]), padName(strings.Join(parts[1:], " "))
}

// padName keeps provisioned names within the profile validation rules
func padName(s string) string {
	if len(s) < 2 {
		return s + "_"
	}
	if len(s) > 50 {
		return s[:50]
	}
	return s
}
