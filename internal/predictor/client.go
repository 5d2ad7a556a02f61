// Package predictor provides the HTTP client for the recall estimator
// service. The estimator predicts, per (user, card) pair, the probability
// that the user answers the card correctly right now.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CardFeatures is the per-card feature set sent to the estimator.
// Field names follow the estimator's v1 contract; any change here must
// be coordinated with the estimator service.
type CardFeatures struct {
	UserID              int     `json:"user_id"`
	CardID              int     `json:"card_id"`
	Chapter             string  `json:"chapter"`
	TimeSinceLastReview float64 `json:"time_since_last_review"`
	TimesReviewed       int     `json:"times_reviewed"`
	LastAttemptCorrect  bool    `json:"last_attempt_correct"`
	CardDifficulty      float64 `json:"card_difficulty"`
}

// PredictionRequest is the estimator's v1 batch request envelope
type PredictionRequest struct {
	Data []CardFeatures `json:"data"`
}

// PredictionResponse is the estimator's v1 response; Predictions is
// parallel to the request's Data slice
type PredictionResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Client calls the recall estimator over HTTP
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new estimator client with a bounded timeout
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict requests recall probabilities for a batch of card features.
// Any failure (unreachable, timeout, non-200, malformed or mismatched
// response) is returned as an error; callers are expected to fall back
// to static card difficulty rather than fail their own operation.
func (c *Client) Predict(ctx context.Context, features []CardFeatures) ([]float64, error) {
	body, err := json.Marshal(PredictionRequest{Data: features})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("estimator request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("estimator returned status %d", resp.StatusCode)
	}

	var prediction PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	if len(prediction.Predictions) != len(features) {
		return nil, fmt.Errorf("estimator returned %d predictions for %d cards",
			len(prediction.Predictions), len(features))
	}

	return prediction.Predictions, nil
}
