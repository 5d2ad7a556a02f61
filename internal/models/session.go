package models

// StartSessionRequest represents a request to compose a practice session
type StartSessionRequest struct {
	UserID  int    `json:"user_id" validate:"required"`
	Chapter string `json:"chapter" validate:"required"`
}
