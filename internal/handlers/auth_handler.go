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

// AuthService is the interface that wraps user account operations
type AuthService interface {
	// Signup creates a new user
	//
	// "ctx" is the context for the request.
	// "username" is the username of the new user.
	//
	// Returns the created user and an error if any.
	Signup(ctx context.Context, username string) (*models.User, error)
	// Login looks up an existing user by username
	//
	// "ctx" is the context for the request.
	// "username" is the username to look up.
	//
	// Returns the user and an error if any.
	Login(ctx context.Context, username string) (*models.User, error)
}

// AuthHandler handles HTTP requests for user accounts
type AuthHandler struct {
	BaseHandler
	service  AuthService
	validate *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
}

// Signup handles POST /signup
// @Summary Create a user
// @Description Create a new user with a unique username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignupRequest true "Username"
// @Success 200 {object} models.User "Created user"
// @Failure 400 {object} map[string]string "Bad request or username taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.service.Signup(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			h.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("failed to create user",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "error creating user")
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Login handles POST /login
// @Summary Log in
// @Description Look up an existing user by username
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Username"
// @Success 200 {object} models.User "User"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.service.Login(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			h.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.Logger.Error("failed to log in",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		h.RespondError(w, http.StatusInternalServerError, "error logging in")
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}
