package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/flashlearn/review-service/internal/models"
)

// SessionService is the interface that wraps session composition
type SessionService interface {
	// StartSession composes a practice session for a user in a chapter
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "chapter" is the chapter to draw cards from.
	//
	// Returns the session cards and an error if any.
	StartSession(ctx context.Context, userID int, chapter string) ([]models.SessionCard, error)
}

// AnswerService is the interface that wraps answer processing
type AnswerService interface {
	// SubmitAnswer processes a submitted answer and reschedules the card
	//
	// "ctx" is the context for the request.
	// "req" is the submitted answer.
	//
	// Returns the submission outcome and an error if any.
	SubmitAnswer(ctx context.Context, req *models.SubmitAnswerRequest) (*models.SubmitAnswerResponse, error)
}

// SessionHandler handles HTTP requests for practice sessions
type SessionHandler struct {
	BaseHandler
	sessionService SessionService
	answerService  AnswerService
	validate       *validator.Validate
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService SessionService, answerService AnswerService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		sessionService: sessionService,
		answerService:  answerService,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes registers all session handler routes
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/start-session", h.StartSession)
	r.Post("/submit-answer", h.SubmitAnswer)
}

// StartSession handles POST /start-session
// @Summary Start a practice session
// @Description Compose a session of due cards for a chapter, ordered by predicted difficulty
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.StartSessionRequest true "User and chapter"
// @Success 200 {array} models.SessionCard "Session cards"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "No cards available"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /start-session [post]
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "user_id and chapter are required")
		return
	}

	session, err := h.sessionService.StartSession(r.Context(), req.UserID, req.Chapter)
	if err != nil {
		if errors.Is(err, models.ErrNoDueCards) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to start session",
			zap.Int("user_id", req.UserID),
			zap.String("chapter", req.Chapter),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "error starting session")
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}

// SubmitAnswer handles POST /submit-answer
// @Summary Submit an answer
// @Description Validate an answer, grant experience, record the attempt, and reschedule the card
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body models.SubmitAnswerRequest true "Submitted answer"
// @Success 200 {object} models.SubmitAnswerResponse "Submission outcome"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Card not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /submit-answer [post]
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "user_id, card_id, and chosen_answer are required")
		return
	}

	result, err := h.answerService.SubmitAnswer(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrCardNotFound) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to submit answer",
			zap.Int("user_id", req.UserID),
			zap.Int("card_id", req.CardID),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "error submitting answer")
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}
