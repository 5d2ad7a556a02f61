package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flashlearn/review-service/internal/models"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *reviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create appends a new review record. Reviews are append-only; existing
// records are never updated.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews
		(user_id, card_id, attempt_time, chosen_answer, was_correct,
		 time_since_last, times_reviewed, last_correct, response_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		review.UserID,
		review.CardID,
		review.AttemptTime,
		review.ChosenAnswer,
		review.WasCorrect,
		review.TimeSinceLast,
		review.TimesReviewed,
		review.LastCorrect,
		review.ResponseTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	review.ReviewID = int(id)
	return nil
}

// GetLatestByUserAndCard retrieves the most recent review for a
// (user, card) pair. Returns (nil, nil) when the pair has never been
// reviewed.
func (r *reviewRepository) GetLatestByUserAndCard(ctx context.Context, userID, cardID int) (*models.Review, error) {
	query := `
		SELECT review_id, user_id, card_id, attempt_time, chosen_answer, was_correct,
		       time_since_last, times_reviewed, last_correct, response_time
		FROM reviews
		WHERE user_id = ? AND card_id = ?
		ORDER BY attempt_time DESC
		LIMIT 1
	`

	var review models.Review
	err := r.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&review.ReviewID,
		&review.UserID,
		&review.CardID,
		&review.AttemptTime,
		&review.ChosenAnswer,
		&review.WasCorrect,
		&review.TimeSinceLast,
		&review.TimesReviewed,
		&review.LastCorrect,
		&review.ResponseTime,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest review: %w", err)
	}

	return &review, nil
}

// TotalXP computes the user's total experience from correct reviews,
// 10 base plus up to 20 difficulty bonus per correct answer based on
// the card's static difficulty.
func (r *reviewRepository) TotalXP(ctx context.Context, userID int) (int, error) {
	query := `
		SELECT COUNT(*) * 10 + COALESCE(CAST(SUM((1 - c.difficulty) * 20) AS SIGNED), 0) AS total_xp
		FROM reviews r
		JOIN cards c ON r.card_id = c.card_id
		WHERE r.user_id = ? AND r.was_correct = TRUE
	`

	var totalXP int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&totalXP)
	if err != nil {
		return 0, fmt.Errorf("failed to compute total xp: %w", err)
	}

	return totalXP, nil
}

// GetCorrectDays retrieves the distinct calendar days on which the user
// had at least one correct attempt, most recent first
func (r *reviewRepository) GetCorrectDays(ctx context.Context, userID int) ([]time.Time, error) {
	query := `
		SELECT DISTINCT DATE(attempt_time) AS day
		FROM reviews
		WHERE user_id = ? AND was_correct = TRUE
		ORDER BY day DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query correct days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		days = append(days, day)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return days, nil
}

// CountIncorrectOnDay counts the user's incorrect attempts on a calendar
// day (formatted as 2006-01-02)
func (r *reviewRepository) CountIncorrectOnDay(ctx context.Context, userID int, day string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reviews
		WHERE user_id = ? AND was_correct = FALSE AND DATE(attempt_time) = ?
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, userID, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count incorrect attempts: %w", err)
	}

	return count, nil
}

// DeleteIncorrectOnDay deletes the user's incorrect attempts on a
// calendar day. This is the only operation that removes review history;
// it exists as a support affordance to refill hearts.
func (r *reviewRepository) DeleteIncorrectOnDay(ctx context.Context, userID int, day string) error {
	query := `
		DELETE FROM reviews
		WHERE user_id = ? AND was_correct = FALSE AND DATE(attempt_time) = ?
	`

	_, err := r.db.ExecContext(ctx, query, userID, day)
	if err != nil {
		return fmt.Errorf("failed to delete incorrect attempts: %w", err)
	}

	return nil
}
