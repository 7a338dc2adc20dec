package repository

import (
	"database/sql"
	"fmt"
	"time"

	"tasknest/internal/database"
	"tasknest/internal/models"
)

// UserRepository handles database operations for user accounts
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, first_name, last_name, username, email, hashed_password, COALESCE(bio, ''), reset_token, reset_token_expires, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.Bio,
		&user.ResetToken,
		&user.ResetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user into the database
func (r *UserRepository) CreateUser(firstName, lastName, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, username, email, hashed_password)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, firstName, lastName, username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:             id,
		FirstName:      firstName,
		LastName:       lastName,
		Username:       username,
		Email:          email,
		HashedPassword: passwordHash,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id))
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(r.db.QueryRow(query, username))
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRow(query, email))
}

// GetUserByResetToken retrieves a user whose stored reset token matches and
// has not expired. Expired and unknown tokens both return nil.
func (r *UserRepository) GetUserByResetToken(token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = ? AND reset_token_expires > ?`
	return scanUser(r.db.QueryRow(query, token, time.Now()))
}

// StoreResetToken saves a reset token and its expiry on the user row,
// replacing any previous token
func (r *UserRepository) StoreResetToken(userID int64, token string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token = ?, reset_token_expires = ? WHERE id = ?`
	_, err := r.db.Exec(query, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ResetPassword sets a new password hash and clears the reset token in a
// single statement, so the old token can never outlive the password change
func (r *UserRepository) ResetPassword(userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET hashed_password = ?, reset_token = NULL, reset_token_expires = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password hash
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := `UPDATE users SET hashed_password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateProfile updates a user's profile fields. Username is immutable.
func (r *UserRepository) UpdateProfile(userID int64, firstName, lastName, email, bio string) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, email = ?, bio = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, firstName, lastName, email, bio, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// DeleteUser deletes a user; owned tasks, categories and reminders cascade
func (r *UserRepository) DeleteUser(userID int64) (bool, error) {
	query := `DELETE FROM users WHERE id = ?`
	result, err := r.db.Exec(query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}
