package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
)

// RatingHandlers contains the rating HTTP handlers
type RatingHandlers struct {
	ratingService *services.RatingService
}

// NewRatingHandlers creates rating handlers with injected dependencies
func NewRatingHandlers(ratingService *services.RatingService) *RatingHandlers {
	return &RatingHandlers{ratingService: ratingService}
}

// GetBookRatings handles GET /api/v1/books/:id/ratings
func (h *RatingHandlers) GetBookRatings(c *gin.Context) {
	ratings, err := h.ratingService.ListByBook(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// PostBookRating handles POST /api/v1/books/:id/ratings
func (h *RatingHandlers) PostBookRating(c *gin.Context) {
	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rating, err := h.ratingService.Create(middleware.UserID(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// GetOwnerRatingSummary handles GET /api/v1/users/:id/ratings/summary
func (h *RatingHandlers) GetOwnerRatingSummary(c *gin.Context) {
	summary, err := h.ratingService.SummaryForOwner(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
