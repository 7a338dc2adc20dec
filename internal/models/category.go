package models

import "time"

// Category groups tasks for a user
type Category struct {
	ID           int64     `json:"id"`
	CategoryName string    `json:"category_name"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
