package models

import "time"

// Schedule represents the per (user, card) record of when a card next
// becomes due. Only the latest computed due time is retained; history
// lives solely in reviews.
type Schedule struct {
	UserID      int       `json:"userId"`
	CardID      int       `json:"cardId"`
	NextDueTime time.Time `json:"nextDueTime"`
}
