package models

import "errors"

var (
	// ErrCardNotFound is returned when a card does not exist in the catalog
	ErrCardNotFound = errors.New("card not found")

	// ErrNoDueCards is returned when a chapter has no cards due for review
	ErrNoDueCards = errors.New("no cards available for this chapter")

	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when a signup collides with an existing username
	ErrUsernameTaken = errors.New("username already taken")
)
