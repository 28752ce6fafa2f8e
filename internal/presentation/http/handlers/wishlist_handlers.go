package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
)

// WishlistHandlers contains the wishlist HTTP handlers
type WishlistHandlers struct {
	wishlistService *services.WishlistService
}

// NewWishlistHandlers creates wishlist handlers with injected dependencies
func NewWishlistHandlers(wishlistService *services.WishlistService) *WishlistHandlers {
	return &WishlistHandlers{wishlistService: wishlistService}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandlers) GetWishlist(c *gin.Context) {
	items, err := h.wishlistService.ListForUser(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PostWishlist handles POST /api/v1/wishlist
func (h *WishlistHandlers) PostWishlist(c *gin.Context) {
	var req struct {
		Title  string  `json:"title" binding:"required"`
		Author *string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item, err := h.wishlistService.Add(middleware.UserID(c), req.Title, req.Author)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DeleteWishlistItem handles DELETE /api/v1/wishlist/:id
func (h *WishlistHandlers) DeleteWishlistItem(c *gin.Context) {
	if err := h.wishlistService.Remove(middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
