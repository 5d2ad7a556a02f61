package services

import (
	"context"
	"fmt"
	"time"

	"github.com/flashlearn/review-service/internal/models"
)

const (
	// maxHearts is the daily allowance of incorrect attempts
	maxHearts = 5

	dateLayout = "2006-01-02"
)

// ProgressReviewRepository defines review history aggregates for the
// progress snapshot
type ProgressReviewRepository interface {
	// TotalXP computes the user's total experience from correct reviews
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the total experience and an error if any.
	TotalXP(ctx context.Context, userID int) (int, error)
	// GetCorrectDays retrieves the distinct calendar days with at least
	// one correct attempt, most recent first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the days and an error if any.
	GetCorrectDays(ctx context.Context, userID int) ([]time.Time, error)
	// CountIncorrectOnDay counts the user's incorrect attempts on a day
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "day" is the calendar day formatted as 2006-01-02.
	//
	// Returns the count and an error if any.
	CountIncorrectOnDay(ctx context.Context, userID int, day string) (int, error)
	// DeleteIncorrectOnDay deletes the user's incorrect attempts on a day
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "day" is the calendar day formatted as 2006-01-02.
	//
	// Returns an error if any.
	DeleteIncorrectOnDay(ctx context.Context, userID int, day string) error
}

// DueCountRepository defines due-card counting for the progress snapshot
type DueCountRepository interface {
	// CountDueByChapter counts due cards per chapter for a user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "now" is the time due comparisons are made against.
	//
	// Returns counts keyed by chapter and an error if any.
	CountDueByChapter(ctx context.Context, userID int, now time.Time) (map[string]int, error)
}

type progressService struct {
	reviewRepo ProgressReviewRepository
	cardRepo   DueCountRepository
	clock      Clock
}

// NewProgressService creates a new progress service
func NewProgressService(reviewRepo ProgressReviewRepository, cardRepo DueCountRepository, clock Clock) *progressService {
	return &progressService{
		reviewRepo: reviewRepo,
		cardRepo:   cardRepo,
		clock:      clock,
	}
}

// GetProgress computes a user's progress snapshot on demand: total
// experience, streak, remaining hearts for today, and due card counts
// per chapter
func (s *progressService) GetProgress(ctx context.Context, userID int) (*models.ProgressResponse, error) {
	now := s.clock.Now()
	today := now.Format(dateLayout)

	xp, err := s.reviewRepo.TotalXP(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get total xp: %w", err)
	}

	correctDays, err := s.reviewRepo.GetCorrectDays(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get correct days: %w", err)
	}

	incorrectToday, err := s.reviewRepo.CountIncorrectOnDay(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's incorrect attempts: %w", err)
	}

	hearts := maxHearts - incorrectToday
	if hearts < 0 {
		hearts = 0
	}

	dueByChapter, err := s.cardRepo.CountDueByChapter(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due cards: %w", err)
	}

	return &models.ProgressResponse{
		XP:                xp,
		Streak:            streak(correctDays, now),
		Hearts:            hearts,
		DueCardsByChapter: dueByChapter,
	}, nil
}

// RefillHearts deletes today's incorrect attempts for the user,
// restoring the daily allowance. Irreversible; intended as a support
// affordance, not part of normal gameplay.
func (s *progressService) RefillHearts(ctx context.Context, userID int) error {
	today := s.clock.Now().Format(dateLayout)

	if err := s.reviewRepo.DeleteIncorrectOnDay(ctx, userID, today); err != nil {
		return fmt.Errorf("failed to refill hearts: %w", err)
	}

	return nil
}

// streak counts consecutive calendar days with at least one correct
// attempt, walking backward from today. A past day with no correct
// attempt breaks the streak; today breaks it only once it has passed,
// so a streak survives until the end of the first inactive day.
func streak(correctDays []time.Time, now time.Time) int {
	if len(correctDays) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(correctDays))
	for _, d := range correctDays {
		days[d.Format(dateLayout)] = struct{}{}
	}

	cursor := now
	if _, ok := days[cursor.Format(dateLayout)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	count := 0
	for {
		if _, ok := days[cursor.Format(dateLayout)]; !ok {
			break
		}
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return count
}
