package models

import "time"

// Review represents one immutable record of a single answer submission
type Review struct {
	ReviewID      int       `json:"reviewId"`
	UserID        int       `json:"userId"`
	CardID        int       `json:"cardId"`
	AttemptTime   time.Time `json:"attemptTime"`
	ChosenAnswer  string    `json:"chosenAnswer"`
	WasCorrect    bool      `json:"wasCorrect"`
	TimeSinceLast float64   `json:"timeSinceLast"`
	TimesReviewed int       `json:"timesReviewed"`
	LastCorrect   bool      `json:"lastCorrect"`
	ResponseTime  float64   `json:"responseTime"`
}

// SubmitAnswerRequest represents a request to submit an answer for a card
type SubmitAnswerRequest struct {
	UserID       int     `json:"user_id" validate:"required"`
	CardID       int     `json:"card_id" validate:"required"`
	ChosenAnswer string  `json:"chosen_answer" validate:"required"`
	ResponseTime float64 `json:"response_time" validate:"gte=0"`
}

// SubmitAnswerResponse represents the outcome of an answer submission
type SubmitAnswerResponse struct {
	WasCorrect    bool   `json:"was_correct"`
	XPEarned      int    `json:"xp_earned"`
	CorrectAnswer string `json:"correct_answer"`
}
