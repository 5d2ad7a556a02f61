package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flashlearn/review-service/internal/models"
	"github.com/flashlearn/review-service/internal/predictor"
)

// fixedClock returns a fixed time, making day boundaries and elapsed
// hours deterministic in tests
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

type mockPredictor struct {
	probabilities []float64
	err           error
	calls         [][]predictor.CardFeatures
}

func (m *mockPredictor) Predict(ctx context.Context, features []predictor.CardFeatures) ([]float64, error) {
	m.calls = append(m.calls, features)
	if m.err != nil {
		return nil, m.err
	}
	return m.probabilities, nil
}

type mockSessionCardRepository struct {
	dueCards    []models.DueCard
	dueErr      error
	chapters    []string
	chaptersErr error

	gotUserID  int
	gotChapter string
	gotNow     time.Time
	gotLimit   int
}

func (m *mockSessionCardRepository) GetDueByChapter(ctx context.Context, userID int, chapter string, now time.Time, limit int) ([]models.DueCard, error) {
	m.gotUserID = userID
	m.gotChapter = chapter
	m.gotNow = now
	m.gotLimit = limit
	if m.dueErr != nil {
		return nil, m.dueErr
	}
	return m.dueCards, nil
}

func (m *mockSessionCardRepository) GetChapters(ctx context.Context) ([]string, error) {
	if m.chaptersErr != nil {
		return nil, m.chaptersErr
	}
	return m.chapters, nil
}

func newDueCard(cardID int, difficulty float64, timesReviewed int, lastCorrect bool, lastAttempt time.Time) models.DueCard {
	card := models.DueCard{
		Card: models.Card{
			CardID:        cardID,
			VideoURL:      fmt.Sprintf("https://cdn.example.com/v/%d.mp4", cardID),
			Option1:       "dog",
			Option2:       "cat",
			Option3:       "bird",
			Option4:       "fish",
			CorrectAnswer: "dog",
			Chapter:       "Basics",
			Difficulty:    difficulty,
		},
		TimesReviewed: timesReviewed,
		LastCorrect:   lastCorrect,
	}
	if !lastAttempt.IsZero() {
		card.LastAttemptTime = sql.NullTime{Time: lastAttempt, Valid: true}
	}
	return card
}

func TestSessionService_StartSession(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{t: now}

	t.Run("orders hard cards first", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{
			dueCards: []models.DueCard{
				newDueCard(1, 0.3, 2, true, now.Add(-48*time.Hour)),
				newDueCard(2, 0.3, 1, false, now.Add(-24*time.Hour)),
				newDueCard(3, 0.3, 0, false, time.Time{}),
			},
		}
		recall := &mockPredictor{probabilities: []float64{0.2, 0.9, 0.45}}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		session, err := service.StartSession(context.Background(), 7, "Basics")

		require.NoError(t, err)
		require.Len(t, session, 3)

		// Hard cards (below 0.5) alternate from the front, so with two
		// hard and one easy the easy card lands in the middle
		assert.Less(t, session[0].ProbCorrect, 0.5)
		assert.Equal(t, 0.9, session[1].ProbCorrect)
		assert.Less(t, session[2].ProbCorrect, 0.5)

		assert.Equal(t, 7, cardRepo.gotUserID)
		assert.Equal(t, "Basics", cardRepo.gotChapter)
		assert.Equal(t, now, cardRepo.gotNow)
		assert.Equal(t, 50, cardRepo.gotLimit)
	})

	t.Run("sends review history features to the estimator", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{
			dueCards: []models.DueCard{
				newDueCard(1, 0.3, 2, true, now.Add(-48*time.Hour)),
				newDueCard(2, 0.7, 0, false, time.Time{}),
			},
		}
		recall := &mockPredictor{probabilities: []float64{0.2, 0.9}}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		_, err := service.StartSession(context.Background(), 7, "Basics")

		require.NoError(t, err)
		require.Len(t, recall.calls, 1)
		features := recall.calls[0]
		require.Len(t, features, 2)

		assert.Equal(t, 7, features[0].UserID)
		assert.Equal(t, 1, features[0].CardID)
		assert.Equal(t, "Basics", features[0].Chapter)
		assert.Equal(t, 48.0, features[0].TimeSinceLastReview)
		assert.Equal(t, 2, features[0].TimesReviewed)
		assert.True(t, features[0].LastAttemptCorrect)
		assert.Equal(t, 0.3, features[0].CardDifficulty)

		// Never-reviewed card reports zero elapsed time
		assert.Equal(t, 0.0, features[1].TimeSinceLastReview)
		assert.Equal(t, 0, features[1].TimesReviewed)
		assert.False(t, features[1].LastAttemptCorrect)
	})

	t.Run("falls back to card difficulty when estimator fails", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{
			dueCards: []models.DueCard{
				newDueCard(1, 0.2, 0, false, time.Time{}),
				newDueCard(2, 0.9, 0, false, time.Time{}),
			},
		}
		recall := &mockPredictor{err: errors.New("connection refused")}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		session, err := service.StartSession(context.Background(), 7, "Basics")

		require.NoError(t, err)
		require.Len(t, session, 2)

		probs := map[int]float64{}
		for _, sc := range session {
			probs[sc.CardID] = sc.ProbCorrect
		}
		assert.Equal(t, 0.2, probs[1])
		assert.Equal(t, 0.9, probs[2])

		// Difficulty partition still applies, so the hard card leads
		assert.Equal(t, 1, session[0].CardID)
	})

	t.Run("shuffles options without changing their set", func(t *testing.T) {
		due := newDueCard(1, 0.3, 0, false, time.Time{})
		cardRepo := &mockSessionCardRepository{dueCards: []models.DueCard{due}}
		recall := &mockPredictor{probabilities: []float64{0.4}}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		session, err := service.StartSession(context.Background(), 7, "Basics")

		require.NoError(t, err)
		require.Len(t, session, 1)
		assert.ElementsMatch(t, []string{"dog", "cat", "bird", "fish"}, session[0].Options)
		assert.Equal(t, due.VideoURL, session[0].VideoURL)
	})

	t.Run("caps the session at twenty cards", func(t *testing.T) {
		var dueCards []models.DueCard
		var probabilities []float64
		for i := 1; i <= 30; i++ {
			dueCards = append(dueCards, newDueCard(i, 0.5, 0, false, time.Time{}))
			if i%2 == 0 {
				probabilities = append(probabilities, 0.2)
			} else {
				probabilities = append(probabilities, 0.8)
			}
		}
		cardRepo := &mockSessionCardRepository{dueCards: dueCards}
		recall := &mockPredictor{probabilities: probabilities}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		session, err := service.StartSession(context.Background(), 7, "Basics")

		require.NoError(t, err)
		assert.Len(t, session, 20)

		hard := 0
		for _, sc := range session {
			if sc.ProbCorrect < 0.5 {
				hard++
			}
		}
		assert.Equal(t, 10, hard)
	})

	t.Run("no due cards", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{}
		recall := &mockPredictor{}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		session, err := service.StartSession(context.Background(), 7, "Basics")

		assert.ErrorIs(t, err, models.ErrNoDueCards)
		assert.Nil(t, session)
		assert.Empty(t, recall.calls)
	})

	t.Run("repository error", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{dueErr: errors.New("database error")}
		recall := &mockPredictor{}
		service := NewSessionService(cardRepo, recall, clock, zap.NewNop())

		session, err := service.StartSession(context.Background(), 7, "Basics")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get due cards")
		assert.Nil(t, session)
	})
}

func TestSessionService_GetChapters(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{chapters: []string{"Animals", "Basics"}}
		service := NewSessionService(cardRepo, &mockPredictor{}, fixedClock{t: now}, zap.NewNop())

		chapters, err := service.GetChapters(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"Animals", "Basics"}, chapters)
	})

	t.Run("repository error", func(t *testing.T) {
		cardRepo := &mockSessionCardRepository{chaptersErr: errors.New("database error")}
		service := NewSessionService(cardRepo, &mockPredictor{}, fixedClock{t: now}, zap.NewNop())

		chapters, err := service.GetChapters(context.Background())

		assert.Error(t, err)
		assert.Nil(t, chapters)
	})
}

func TestInterleave(t *testing.T) {
	sc := func(id int, prob float64) scoredCard {
		return scoredCard{card: models.DueCard{Card: models.Card{CardID: id}}, prob: prob}
	}

	tests := []struct {
		name     string
		hard     []scoredCard
		easy     []scoredCard
		limit    int
		expected []int
	}{
		{
			name:     "alternates hard first",
			hard:     []scoredCard{sc(1, 0.1), sc(2, 0.2)},
			easy:     []scoredCard{sc(3, 0.8), sc(4, 0.9)},
			limit:    20,
			expected: []int{1, 3, 2, 4},
		},
		{
			name:     "drains easy when hard empties",
			hard:     []scoredCard{sc(1, 0.1)},
			easy:     []scoredCard{sc(2, 0.8), sc(3, 0.9), sc(4, 0.7)},
			limit:    20,
			expected: []int{1, 2, 3, 4},
		},
		{
			name:     "drains hard when easy empties",
			hard:     []scoredCard{sc(1, 0.1), sc(2, 0.2), sc(3, 0.3)},
			easy:     nil,
			limit:    20,
			expected: []int{1, 2, 3},
		},
		{
			name:     "respects the limit",
			hard:     []scoredCard{sc(1, 0.1), sc(2, 0.2)},
			easy:     []scoredCard{sc(3, 0.8), sc(4, 0.9)},
			limit:    3,
			expected: []int{1, 3, 2},
		},
		{
			name:     "both empty",
			hard:     nil,
			easy:     nil,
			limit:    20,
			expected: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := interleave(tt.hard, tt.easy, tt.limit)

			ids := make([]int, 0, len(selected))
			for _, s := range selected {
				ids = append(ids, s.card.CardID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
