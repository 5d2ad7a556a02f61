package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flashlearn/review-service/internal/models"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *sql.DB) *cardRepository {
	return &cardRepository{
		db: db,
	}
}

// GetByID retrieves a card by its ID
func (r *cardRepository) GetByID(ctx context.Context, cardID int) (*models.Card, error) {
	query := `
		SELECT card_id, video_url, option_1, option_2, option_3, option_4,
		       correct_answer, chapter, difficulty
		FROM cards
		WHERE card_id = ?
		LIMIT 1
	`

	var card models.Card
	err := r.db.QueryRowContext(ctx, query, cardID).Scan(
		&card.CardID,
		&card.VideoURL,
		&card.Option1,
		&card.Option2,
		&card.Option3,
		&card.Option4,
		&card.CorrectAnswer,
		&card.Chapter,
		&card.Difficulty,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return &card, nil
}

// GetDueByChapter retrieves due cards for a user in a chapter, joined
// with the latest review per card. A card is due when it has no schedule
// entry or its next due time has passed.
func (r *cardRepository) GetDueByChapter(ctx context.Context, userID int, chapter string, now time.Time, limit int) ([]models.DueCard, error) {
	query := `
		SELECT c.card_id, c.video_url, c.option_1, c.option_2, c.option_3, c.option_4,
		       c.correct_answer, c.chapter, c.difficulty,
		       COALESCE(r.times_reviewed, 0) AS times_reviewed,
		       COALESCE(r.was_correct, FALSE) AS last_correct,
		       r.attempt_time
		FROM cards c
		LEFT JOIN schedules s ON s.card_id = c.card_id AND s.user_id = ?
		LEFT JOIN reviews r ON r.card_id = c.card_id AND r.user_id = ?
			AND r.attempt_time = (
				SELECT MAX(attempt_time)
				FROM reviews
				WHERE card_id = c.card_id AND user_id = ?
			)
		WHERE c.chapter = ?
		AND (s.next_due_time IS NULL OR s.next_due_time <= ?)
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, userID, chapter, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	defer rows.Close()

	var cards []models.DueCard
	for rows.Next() {
		var card models.DueCard
		err := rows.Scan(
			&card.CardID,
			&card.VideoURL,
			&card.Option1,
			&card.Option2,
			&card.Option3,
			&card.Option4,
			&card.CorrectAnswer,
			&card.Chapter,
			&card.Difficulty,
			&card.TimesReviewed,
			&card.LastCorrect,
			&card.LastAttemptTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due card: %w", err)
		}
		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return cards, nil
}

// GetChapters retrieves the list of distinct chapters in the catalog
func (r *cardRepository) GetChapters(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT chapter FROM cards ORDER BY chapter`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []string
	for rows.Next() {
		var chapter string
		if err := rows.Scan(&chapter); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return chapters, nil
}

// CountDueByChapter counts due cards per chapter for a user
func (r *cardRepository) CountDueByChapter(ctx context.Context, userID int, now time.Time) (map[string]int, error) {
	query := `
		SELECT c.chapter, COUNT(*) AS due_cards
		FROM cards c
		LEFT JOIN schedules s ON s.card_id = c.card_id AND s.user_id = ?
		WHERE s.next_due_time IS NULL OR s.next_due_time <= ?
		GROUP BY c.chapter
	`

	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due card counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var chapter string
		var count int
		if err := rows.Scan(&chapter, &count); err != nil {
			return nil, fmt.Errorf("failed to scan due card count: %w", err)
		}
		counts[chapter] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
