package models

import "time"

// User represents a registered account
type User struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	Bio            string     `json:"bio"`
	ResetToken     *string    `json:"-"`
	ResetExpires   *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasActiveResetToken reports whether a reset token is stored and unexpired
func (u *User) HasActiveResetToken() bool {
	return u.ResetToken != nil && u.ResetExpires != nil && time.Now().Before(*u.ResetExpires)
}
