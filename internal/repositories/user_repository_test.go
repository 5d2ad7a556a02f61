package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashlearn/review-service/internal/models"
)

// setupUserTestRepository creates a user repository with a mock database
func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewUserRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedUser  *models.User
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users \(username\) VALUES \(\?\)`).
					WithArgs("alice").
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			expectedUser: &models.User{
				UserID:   7,
				Username: "alice",
			},
		},
		{
			name: "username taken",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users \(username\) VALUES \(\?\)`).
					WithArgs("alice").
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'username'"})
			},
			expectedError: models.ErrUsernameTaken,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users \(username\) VALUES \(\?\)`).
					WithArgs("alice").
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("failed to create user"),
		},
		{
			name: "last insert id error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users \(username\) VALUES \(\?\)`).
					WithArgs("alice").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("last insert id error")))
			},
			expectedError: errors.New("failed to get last insert id"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user, err := repo.Create(context.Background(), "alice")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_UsernameTakenIsSentinel(t *testing.T) {
	repo, mock, cleanup := setupUserTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO users \(username\) VALUES \(\?\)`).
		WithArgs("alice").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'username'"})

	_, err := repo.Create(context.Background(), "alice")

	assert.ErrorIs(t, err, models.ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername(t *testing.T) {
	createdAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedUser  *models.User
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"user_id", "username", "created_at"}).
					AddRow(7, "alice", createdAt)
				mock.ExpectQuery(`SELECT user_id, username, created_at FROM users WHERE username = \? LIMIT 1`).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			expectedUser: &models.User{
				UserID:    7,
				Username:  "alice",
				CreatedAt: createdAt,
			},
		},
		{
			name: "user not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, username, created_at FROM users WHERE username = \? LIMIT 1`).
					WithArgs("alice").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrUserNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, username, created_at FROM users WHERE username = \? LIMIT 1`).
					WithArgs("alice").
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("failed to get user by username"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user, err := repo.GetByUsername(context.Background(), "alice")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
