package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/flashlearn/review-service/internal/models"
)

// ProgressService is the interface that wraps progress aggregation
type ProgressService interface {
	// GetProgress computes a user's progress snapshot on demand
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the progress snapshot and an error if any.
	GetProgress(ctx context.Context, userID int) (*models.ProgressResponse, error)
	// RefillHearts deletes today's incorrect attempts for the user
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns an error if any.
	RefillHearts(ctx context.Context, userID int) error
}

// ProgressHandler handles HTTP requests for user progress
type ProgressHandler struct {
	BaseHandler
	service ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(svc ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all progress handler routes
func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.Get("/user-progress/{userID}", h.GetUserProgress)
	r.Post("/refill-hearts/{userID}", h.RefillHearts)
}

// GetUserProgress handles GET /user-progress/{userID}
// @Summary Get user progress
// @Description Get total experience, streak, remaining hearts, and due card counts per chapter
// @Tags progress
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.ProgressResponse "Progress snapshot"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /user-progress/{userID} [get]
func (h *ProgressHandler) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to get user progress",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "error fetching user progress")
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}

// RefillHearts handles POST /refill-hearts/{userID}
// @Summary Refill hearts
// @Description Delete today's incorrect attempts for the user, restoring the daily allowance
// @Tags progress
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]string "Confirmation message"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /refill-hearts/{userID} [post]
func (h *ProgressHandler) RefillHearts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.service.RefillHearts(r.Context(), userID); err != nil {
		h.Logger.Error("failed to refill hearts",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "error refilling hearts")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Hearts refilled successfully"})
}
