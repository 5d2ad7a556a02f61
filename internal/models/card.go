package models

import (
	"database/sql"
	"time"
)

// Card represents a learning card in the catalog
type Card struct {
	CardID        int       `json:"cardId"`
	VideoURL      string    `json:"videoUrl"`
	Option1       string    `json:"option1"`
	Option2       string    `json:"option2"`
	Option3       string    `json:"option3"`
	Option4       string    `json:"option4"`
	CorrectAnswer string    `json:"-"`
	Chapter       string    `json:"chapter"`
	Difficulty    float64   `json:"difficulty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// Options returns the card's four answer options in stored order
func (c *Card) Options() []string {
	return []string{c.Option1, c.Option2, c.Option3, c.Option4}
}

// DueCard represents a due card joined with the latest review for a user
type DueCard struct {
	Card
	TimesReviewed   int
	LastCorrect     bool
	LastAttemptTime sql.NullTime
}

// SessionCard represents a card as served inside a practice session.
// The correct answer is deliberately absent; it is revealed only by
// the submit-answer response.
type SessionCard struct {
	CardID      int      `json:"card_id"`
	VideoURL    string   `json:"video_url"`
	Options     []string `json:"options"`
	ProbCorrect float64  `json:"prob_correct"`
}
