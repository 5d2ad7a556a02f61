package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flashlearn/review-service/internal/models"
)

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *sql.DB) *scheduleRepository {
	return &scheduleRepository{
		db: db,
	}
}

// Upsert inserts or replaces the next due time for a (user, card) pair.
// Last write wins; only the latest computed due time is retained.
func (r *scheduleRepository) Upsert(ctx context.Context, userID, cardID int, nextDueTime time.Time) error {
	query := `
		INSERT INTO schedules (user_id, card_id, next_due_time)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE next_due_time = VALUES(next_due_time)
	`

	_, err := r.db.ExecContext(ctx, query, userID, cardID, nextDueTime)
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}

	return nil
}

// GetByUserAndCard retrieves the schedule entry for a (user, card) pair.
// Returns (nil, nil) when no entry exists, which means the card is
// immediately due.
func (r *scheduleRepository) GetByUserAndCard(ctx context.Context, userID, cardID int) (*models.Schedule, error) {
	query := `
		SELECT user_id, card_id, next_due_time
		FROM schedules
		WHERE user_id = ? AND card_id = ?
		LIMIT 1
	`

	var schedule models.Schedule
	err := r.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&schedule.UserID,
		&schedule.CardID,
		&schedule.NextDueTime,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return &schedule, nil
}
