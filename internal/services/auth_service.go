package services

import (
	"context"

	"github.com/flashlearn/review-service/internal/models"
)

// UserRepository defines user data access
type UserRepository interface {
	// Create creates a new user with the given username
	//
	// "ctx" is the context for the request.
	// "username" is the username of the new user.
	//
	// Returns the created user and an error if any.
	Create(ctx context.Context, username string) (*models.User, error)
	// GetByUsername retrieves a user by username
	//
	// "ctx" is the context for the request.
	// "username" is the username to look up.
	//
	// Returns the user and an error if any.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type authService struct {
	userRepo UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository) *authService {
	return &authService{
		userRepo: userRepo,
	}
}

// Signup creates a new user
func (s *authService) Signup(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.Create(ctx, username)
}

// Login looks up an existing user by username
func (s *authService) Login(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}
