package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shelfshare/shelfshare-go/internal/application/services"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/media"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/presentation/http/middleware"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// BookHandlers contains the catalog HTTP handlers
type BookHandlers struct {
	bookService *services.BookService
	covers      *media.CoverProcessor
	logger      *logging.ChanneledLogger
}

// NewBookHandlers creates book handlers with injected dependencies
func NewBookHandlers(bookService *services.BookService, covers *media.CoverProcessor, logger *logging.ChanneledLogger) *BookHandlers {
	return &BookHandlers{bookService: bookService, covers: covers, logger: logger}
}

type bookRequest struct {
	Title             string `json:"title" binding:"required"`
	Author            string `json:"author" binding:"required"`
	Genre             string `json:"genre" binding:"required"`
	Description       string `json:"description"`
	Condition         string `json:"condition" binding:"required"`
	Location          string `json:"location"`
	ContactPreference string `json:"contactPreference"`
}

func (r bookRequest) toInput() services.BookInput {
	return services.BookInput{
		Title:             r.Title,
		Author:            r.Author,
		Genre:             r.Genre,
		Description:       r.Description,
		Condition:         r.Condition,
		Location:          r.Location,
		ContactPreference: r.ContactPreference,
	}
}

// GetBooks handles GET /api/v1/books
func (h *BookHandlers) GetBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	result, err := h.bookService.List(services.BookFilters{
		Genre:     c.Query("genre"),
		Condition: c.Query("condition"),
		Status:    c.Query("status"),
		Location:  c.Query("location"),
		OwnerID:   c.Query("ownerId"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBook handles GET /api/v1/books/:id
func (h *BookHandlers) GetBook(c *gin.Context) {
	book, err := h.bookService.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// PostBook handles POST /api/v1/books
func (h *BookHandlers) PostBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	book, err := h.bookService.Create(middleware.UserID(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// PutBook handles PUT /api/v1/books/:id
func (h *BookHandlers) PutBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	book, err := h.bookService.Update(middleware.UserID(c), c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// PatchBookStatus handles PATCH /api/v1/books/:id/status
func (h *BookHandlers) PatchBookStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	book, err := h.bookService.UpdateStatus(middleware.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/v1/books/:id
func (h *BookHandlers) DeleteBook(c *gin.Context) {
	if err := h.bookService.Delete(middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PostBookCover handles POST /api/v1/books/:id/cover (multipart upload)
func (h *BookHandlers) PostBookCover(c *gin.Context) {
	file, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A cover file is required"})
		return
	}
	if file.Size > config.UploadMaxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Cover file too large"})
		return
	}

	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}
	defer reader.Close()

	url, err := h.covers.SaveCover(reader)
	if err != nil {
		h.logger.Catalog().Warn("Cover upload rejected", "bookId", c.Param("id"), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image"})
		return
	}

	book, err := h.bookService.SetImageURL(middleware.UserID(c), c.Param("id"), url)
	if err != nil {
		h.covers.Remove(url)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// PostBooksImport handles POST /api/v1/books/import
func (h *BookHandlers) PostBooksImport(c *gin.Context) {
	var req struct {
		Books []bookRequest `json:"books" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	inputs := make([]services.BookInput, 0, len(req.Books))
	for _, row := range req.Books {
		inputs = append(inputs, row.toInput())
	}
	result, err := h.bookService.Import(middleware.UserID(c), inputs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBooksExport handles GET /api/v1/books/export
func (h *BookHandlers) GetBooksExport(c *gin.Context) {
	books, err := h.bookService.Export(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="my-books.json"`)
	c.JSON(http.StatusOK, books)
}
