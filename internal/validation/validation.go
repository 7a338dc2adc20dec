package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// ValidationError represents a validation error on a named field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements: at least 6
// characters with one uppercase letter, one lowercase letter, and one digit
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 6 {
		return ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ValidationError{Field: "password", Message: "password must contain at least one uppercase letter, one lowercase letter, and one number"}
	}
	return nil
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) < 3 || len(username) > 50 {
		return ValidationError{Field: "username", Message: "username must be between 3 and 50 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username can only contain letters, numbers, and underscores"}
	}
	return nil
}

// ValidateName checks a first or last name
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if len(name) < 2 || len(name) > 50 {
		return ValidationError{Field: field, Message: field + " must be between 2 and 50 characters"}
	}
	return nil
}

// ValidateTaskName checks a task name
func ValidateTaskName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "task_name", Message: "task name is required"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "task_name", Message: "task name must be between 1 and 100 characters"}
	}
	return nil
}

// ValidateCategoryName checks a category name
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "category_name", Message: "category name is required"}
	}
	if len(name) > 50 {
		return ValidationError{Field: "category_name", Message: "category name must be between 1 and 50 characters"}
	}
	return nil
}
