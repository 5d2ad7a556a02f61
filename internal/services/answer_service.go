package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/flashlearn/review-service/internal/models"
	"github.com/flashlearn/review-service/internal/predictor"
)

const (
	// baseXP is the experience granted for any correct answer
	baseXP = 10
	// maxDifficultyBonus is the additional experience for a correct
	// answer the estimator considered unlikely
	maxDifficultyBonus = 20
	// incorrectRetryDelay is how soon an incorrectly answered card
	// becomes due again
	incorrectRetryDelay = time.Hour
)

// AnswerCardRepository defines card lookup for answer processing
type AnswerCardRepository interface {
	// GetByID retrieves a card by its ID
	//
	// "ctx" is the context for the request.
	// "cardID" is the ID of the card.
	//
	// Returns the card and an error if any.
	GetByID(ctx context.Context, cardID int) (*models.Card, error)
}

// ReviewRepository defines review history access for answer processing
type ReviewRepository interface {
	// Create appends a new review record
	//
	// "ctx" is the context for the request.
	// "review" is the review record to append.
	//
	// Returns an error if any.
	Create(ctx context.Context, review *models.Review) error
	// GetLatestByUserAndCard retrieves the most recent review for a
	// (user, card) pair, or nil when the pair has never been reviewed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "cardID" is the ID of the card.
	//
	// Returns the review and an error if any.
	GetLatestByUserAndCard(ctx context.Context, userID, cardID int) (*models.Review, error)
}

// ScheduleRepository defines schedule writes for answer processing
type ScheduleRepository interface {
	// Upsert inserts or replaces the next due time for a (user, card) pair
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "cardID" is the ID of the card.
	// "nextDueTime" is when the card next becomes due.
	//
	// Returns an error if any.
	Upsert(ctx context.Context, userID, cardID int, nextDueTime time.Time) error
}

type answerService struct {
	cardRepo     AnswerCardRepository
	reviewRepo   ReviewRepository
	scheduleRepo ScheduleRepository
	predictor    RecallPredictor
	clock        Clock
	logger       *zap.Logger
}

// NewAnswerService creates a new answer service
func NewAnswerService(
	cardRepo AnswerCardRepository,
	reviewRepo ReviewRepository,
	scheduleRepo ScheduleRepository,
	recallPredictor RecallPredictor,
	clock Clock,
	logger *zap.Logger,
) *answerService {
	return &answerService{
		cardRepo:     cardRepo,
		reviewRepo:   reviewRepo,
		scheduleRepo: scheduleRepo,
		predictor:    recallPredictor,
		clock:        clock,
		logger:       logger,
	}
}

// SubmitAnswer validates a submitted answer against the card's correct
// option, grants experience scaled by how unlikely the estimator
// considered a correct answer, appends a review record, and reschedules
// the card. The review append and schedule upsert are not atomic as a
// pair; a failure between them is surfaced and not retried.
func (s *answerService) SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error) {
	now := s.clock.Now()

	card, err := s.cardRepo.GetByID(ctx, req.CardID)
	if err != nil {
		return nil, err
	}

	// Exact equality, no normalization: stored options and displayed
	// options come from the same catalog rows
	wasCorrect := req.ChosenAnswer == card.CorrectAnswer

	lastReview, err := s.reviewRepo.GetLatestByUserAndCard(ctx, req.UserID, req.CardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest review: %w", err)
	}

	timesReviewed := 1
	hoursSinceLast := 0.0
	lastCorrect := false
	if lastReview != nil {
		timesReviewed = lastReview.TimesReviewed + 1
		hoursSinceLast = now.Sub(lastReview.AttemptTime).Hours()
		lastCorrect = lastReview.WasCorrect
	}

	prob := s.predictProbability(ctx, req.UserID, card, hoursSinceLast, timesReviewed, lastCorrect)

	xpEarned := 0
	if wasCorrect {
		xpEarned = int(math.Round(baseXP + (1-prob)*maxDifficultyBonus))
	}

	review := &models.Review{
		UserID:        req.UserID,
		CardID:        req.CardID,
		AttemptTime:   now,
		ChosenAnswer:  req.ChosenAnswer,
		WasCorrect:    wasCorrect,
		TimeSinceLast: hoursSinceLast,
		TimesReviewed: timesReviewed,
		LastCorrect:   wasCorrect,
		ResponseTime:  req.ResponseTime,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to record review: %w", err)
	}

	// Confident correct answers are deferred longer; shaky ones
	// resurface sooner. Incorrect answers come back in an hour.
	var nextDueTime time.Time
	if wasCorrect {
		nextDueTime = now.Add(time.Duration((1 - prob) * float64(24*time.Hour)))
	} else {
		nextDueTime = now.Add(incorrectRetryDelay)
	}
	if err := s.scheduleRepo.Upsert(ctx, req.UserID, req.CardID, nextDueTime); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	return &models.SubmitAnswerResponse{
		WasCorrect:    wasCorrect,
		XPEarned:      xpEarned,
		CorrectAnswer: card.CorrectAnswer,
	}, nil
}

// predictProbability requests a fresh recall probability for a single
// card, falling back to the card's static difficulty when the estimator
// is unavailable
func (s *answerService) predictProbability(ctx context.Context, userID int, card *models.Card, hoursSinceLast float64, timesReviewed int, lastCorrect bool) float64 {
	features := []predictor.CardFeatures{{
		UserID:              userID,
		CardID:              card.CardID,
		Chapter:             card.Chapter,
		TimeSinceLastReview: hoursSinceLast,
		TimesReviewed:       timesReviewed,
		LastAttemptCorrect:  lastCorrect,
		CardDifficulty:      card.Difficulty,
	}}

	probabilities, err := s.predictor.Predict(ctx, features)
	if err != nil {
		s.logger.Warn("estimator unavailable, falling back to card difficulty",
			zap.Int("user_id", userID),
			zap.Int("card_id", card.CardID),
			zap.Error(err),
		)
		return card.Difficulty
	}

	return probabilities[0]
}
