package models

import "time"

// User represents a registered user
type User struct {
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SignupRequest represents a request to create a user
type SignupRequest struct {
	Username string `json:"username" validate:"required"`
}

// LoginRequest represents a request to look up a user by username
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}
