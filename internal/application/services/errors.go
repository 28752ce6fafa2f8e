// Package services provides application-level orchestration services
package services

import "errors"

// Domain failures the presentation layer maps to HTTP status codes.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("not allowed")
	ErrDuplicateRating    = errors.New("book already rated by this user")
	ErrOwnBookRating      = errors.New("cannot rate your own book")
	ErrDuplicateWishlist  = errors.New("already on the wishlist")
	ErrNotParticipant     = errors.New("not a participant of this thread")
	ErrEmptyContent       = errors.New("content must not be empty")

	// ErrValidation wraps malformed input; handlers map it to 400.
	ErrValidation = errors.New("invalid input")
)
