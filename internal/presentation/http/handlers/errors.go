// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
)

// writeError maps service failures onto HTTP status codes. Unrecognized
// errors stay opaque to the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicateRating),
		errors.Is(err, services.ErrDuplicateWishlist):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrOwnBookRating),
		errors.Is(err, services.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
