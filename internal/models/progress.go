package models

// ProgressResponse represents a user's progress snapshot, computed on
// demand from reviews, schedules, and the card catalog
type ProgressResponse struct {
	XP                int            `json:"xp"`
	Streak            int            `json:"streak"`
	Hearts            int            `json:"hearts"`
	DueCardsByChapter map[string]int `json:"due_cards_by_chapter"`
}
