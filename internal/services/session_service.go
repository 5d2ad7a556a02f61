package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/flashlearn/review-service/internal/models"
	"github.com/flashlearn/review-service/internal/predictor"
)

const (
	// maxDueCandidates caps how many due cards are considered per session
	maxDueCandidates = 50
	// maxSessionCards caps how many cards a single session may contain
	maxSessionCards = 20
	// hardThreshold splits cards into hard (below) and easy (at or above)
	// by predicted recall probability
	hardThreshold = 0.5
)

// SessionCardRepository defines card catalog access for session composition
type SessionCardRepository interface {
	// GetDueByChapter retrieves due cards for a user in a chapter, joined
	// with the latest review per card
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "chapter" is the chapter to draw cards from.
	// "now" is the time due comparisons are made against.
	// "limit" caps the number of candidates.
	//
	// Returns the due cards and an error if any.
	GetDueByChapter(ctx context.Context, userID int, chapter string, now time.Time, limit int) ([]models.DueCard, error)
	// GetChapters retrieves the list of distinct chapters in the catalog
	//
	// "ctx" is the context for the request.
	//
	// Returns the chapters and an error if any.
	GetChapters(ctx context.Context) ([]string, error)
}

// RecallPredictor defines the recall estimator client used to
// personalize session composition
type RecallPredictor interface {
	// Predict requests recall probabilities for a batch of card features
	//
	// "ctx" is the context for the request.
	// "features" is the batch of per-card features.
	//
	// Returns probabilities parallel to the batch and an error if any.
	Predict(ctx context.Context, features []predictor.CardFeatures) ([]float64, error)
}

type scoredCard struct {
	card models.DueCard
	prob float64
}

type sessionService struct {
	cardRepo  SessionCardRepository
	predictor RecallPredictor
	clock     Clock
	logger    *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(cardRepo SessionCardRepository, recallPredictor RecallPredictor, clock Clock, logger *zap.Logger) *sessionService {
	return &sessionService{
		cardRepo:  cardRepo,
		predictor: recallPredictor,
		clock:     clock,
		logger:    logger,
	}
}

// StartSession composes a practice session for a user in a chapter:
// due cards are scored by the recall estimator, split into hard and easy
// halves, shuffled, and interleaved hard-first up to the session cap.
// The composed session has no persisted side effects.
func (s *sessionService) StartSession(ctx context.Context, userID int, chapter string) ([]models.SessionCard, error) {
	now := s.clock.Now()

	dueCards, err := s.cardRepo.GetDueByChapter(ctx, userID, chapter, now, maxDueCandidates)
	if err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	if len(dueCards) == 0 {
		return nil, models.ErrNoDueCards
	}

	features := make([]predictor.CardFeatures, len(dueCards))
	for i, card := range dueCards {
		features[i] = predictor.CardFeatures{
			UserID:              userID,
			CardID:              card.CardID,
			Chapter:             card.Chapter,
			TimeSinceLastReview: hoursSinceLastAttempt(card, now),
			TimesReviewed:       card.TimesReviewed,
			LastAttemptCorrect:  card.LastCorrect,
			CardDifficulty:      card.Difficulty,
		}
	}

	probabilities, err := s.predictor.Predict(ctx, features)
	if err != nil {
		// Estimator unavailability is non-fatal: fall back to static difficulty
		s.logger.Warn("estimator unavailable, falling back to card difficulty",
			zap.Int("user_id", userID),
			zap.String("chapter", chapter),
			zap.Error(err),
		)
		probabilities = make([]float64, len(dueCards))
		for i, card := range dueCards {
			probabilities[i] = card.Difficulty
		}
	}

	var hard, easy []scoredCard
	for i, card := range dueCards {
		sc := scoredCard{card: card, prob: probabilities[i]}
		if sc.prob < hardThreshold {
			hard = append(hard, sc)
		} else {
			easy = append(easy, sc)
		}
	}

	// Shuffle each half independently for unpredictability, then
	// interleave hard-first so difficulty is balanced across the session
	shuffleCards(hard)
	shuffleCards(easy)
	selected := interleave(hard, easy, maxSessionCards)

	session := make([]models.SessionCard, len(selected))
	for i, sc := range selected {
		options := sc.card.Options()
		rand.Shuffle(len(options), func(a, b int) {
			options[a], options[b] = options[b], options[a]
		})
		session[i] = models.SessionCard{
			CardID:      sc.card.CardID,
			VideoURL:    sc.card.VideoURL,
			Options:     options,
			ProbCorrect: sc.prob,
		}
	}

	return session, nil
}

// GetChapters retrieves the list of chapters in the catalog
func (s *sessionService) GetChapters(ctx context.Context) ([]string, error) {
	chapters, err := s.cardRepo.GetChapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	return chapters, nil
}

// hoursSinceLastAttempt returns the hours elapsed since the card's last
// attempt, or 0 when it has never been attempted
func hoursSinceLastAttempt(card models.DueCard, now time.Time) float64 {
	if !card.LastAttemptTime.Valid {
		return 0
	}
	return now.Sub(card.LastAttemptTime.Time).Hours()
}

func shuffleCards(cards []scoredCard) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// interleave alternates one hard, one easy, draining whichever half
// remains once the other empties, until limit cards are selected or
// both halves are exhausted
func interleave(hard, easy []scoredCard, limit int) []scoredCard {
	selected := make([]scoredCard, 0, limit)
	hardIdx, easyIdx := 0, 0

	for len(selected) < limit && (hardIdx < len(hard) || easyIdx < len(easy)) {
		if hardIdx < len(hard) {
			selected = append(selected, hard[hardIdx])
			hardIdx++
		}
		if easyIdx < len(easy) && len(selected) < limit {
			selected = append(selected, easy[easyIdx])
			easyIdx++
		}
	}

	return selected
}
