package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
)

// DefaultPageSize is the listing page size when the client names none.
const DefaultPageSize = 12

// BookService handles catalog listings and ownership-scoped mutations.
type BookService struct {
	books    repositories.BookRepository
	users    repositories.UserRepository
	wishlist *WishlistService
	logger   *logging.ChanneledLogger
}

// NewBookService creates a new book service
func NewBookService(books repositories.BookRepository, users repositories.UserRepository, wishlist *WishlistService, logger *logging.ChanneledLogger) *BookService {
	return &BookService{
		books:    books,
		users:    users,
		wishlist: wishlist,
		logger:   logger,
	}
}

// BookFilters narrows a catalog listing. Zero values mean "any".
type BookFilters struct {
	Genre     string
	Condition string
	Status    string
	Location  string
	OwnerID   string
	Search    string

	SortBy    string // createdAt | title | author
	SortOrder string // asc | desc

	Page     int
	PageSize int
}

// BookPage is one page of a filtered listing.
type BookPage struct {
	Books      []*exchange.Book `json:"books"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// List returns a filtered, sorted, paginated slice of the catalog.
func (b *BookService) List(filters BookFilters) (*BookPage, error) {
	books, err := b.books.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}

	matched := make([]*exchange.Book, 0, len(books))
	for _, book := range books {
		if matchesFilters(book, filters) {
			matched = append(matched, book)
		}
	}

	sortBooks(matched, filters.SortBy, filters.SortOrder)

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &BookPage{
		Books:      matched[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Get returns one book by id.
func (b *BookService) Get(bookID string) (*exchange.Book, error) {
	return b.books.FindByID(bookID)
}

// BookInput carries the fields accepted at creation and update.
type BookInput struct {
	Title             string
	Author            string
	Genre             string
	Description       string
	Condition         string
	Location          string
	ContactPreference string
}

// Validate checks the input against the catalog's enums.
func (in BookInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return fmt.Errorf("%w: title and author are required", ErrValidation)
	}
	if !exchange.ValidGenre(in.Genre) {
		return fmt.Errorf("%w: unknown genre %q", ErrValidation, in.Genre)
	}
	switch exchange.BookCondition(in.Condition) {
	case exchange.ConditionNew, exchange.ConditionLikeNew, exchange.ConditionGood,
		exchange.ConditionFair, exchange.ConditionPoor:
	default:
		return fmt.Errorf("%w: unknown condition %q", ErrValidation, in.Condition)
	}
	return nil
}

// Create lists a new book for the owner and fans out wishlist-match
// notifications to users waiting for it.
func (b *BookService) Create(ownerID string, input BookInput) (*exchange.Book, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	owner, err := b.users.FindByID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	now := time.Now().UTC()
	book := &exchange.Book{
		ID:                security.GenerateULID(),
		Title:             strings.TrimSpace(input.Title),
		Author:            strings.TrimSpace(input.Author),
		Genre:             input.Genre,
		Description:       input.Description,
		Condition:         exchange.BookCondition(input.Condition),
		Location:          input.Location,
		ContactPreference: input.ContactPreference,
		OwnerID:           owner.ID,
		OwnerName:         owner.Name,
		Status:            exchange.StatusAvailable,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := b.books.Store(book); err != nil {
		return nil, fmt.Errorf("failed to store book: %w", err)
	}

	b.logger.Catalog().Info("Book listed", "bookId", book.ID, "ownerId", owner.ID)
	b.wishlist.NotifyMatches(book)
	return book, nil
}

// Update applies owner-only changes to a listing.
func (b *BookService) Update(userID, bookID string, input BookInput) (*exchange.Book, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	book, err := b.books.FindByID(bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, ErrForbidden
	}

	book.Title = strings.TrimSpace(input.Title)
	book.Author = strings.TrimSpace(input.Author)
	book.Genre = input.Genre
	book.Description = input.Description
	book.Condition = exchange.BookCondition(input.Condition)
	book.Location = input.Location
	book.ContactPreference = input.ContactPreference
	book.UpdatedAt = time.Now().UTC()

	if err := b.books.Update(book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return book, nil
}

// UpdateStatus moves a listing through available/reserved/exchanged.
func (b *BookService) UpdateStatus(userID, bookID string, status string) (*exchange.Book, error) {
	switch exchange.BookStatus(status) {
	case exchange.StatusAvailable, exchange.StatusReserved, exchange.StatusExchanged:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	book, err := b.books.FindByID(bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, ErrForbidden
	}

	book.Status = exchange.BookStatus(status)
	book.UpdatedAt = time.Now().UTC()
	if err := b.books.Update(book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	b.logger.Catalog().Info("Book status changed", "bookId", book.ID, "status", status)
	return book, nil
}

// SetImageURL attaches an uploaded cover to an owner's listing.
func (b *BookService) SetImageURL(userID, bookID, imageURL string) (*exchange.Book, error) {
	book, err := b.books.FindByID(bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, ErrForbidden
	}
	book.ImageURL = &imageURL
	book.UpdatedAt = time.Now().UTC()
	if err := b.books.Update(book); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return book, nil
}

// Delete removes an owner's listing.
func (b *BookService) Delete(userID, bookID string) error {
	book, err := b.books.FindByID(bookID)
	if err != nil {
		return err
	}
	if book.OwnerID != userID {
		return ErrForbidden
	}
	return b.books.Delete(bookID)
}

// ImportResult reports a bulk import outcome.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Import creates listings in bulk for the owner. Invalid rows are skipped
// and reported, never aborting the rest of the batch.
func (b *BookService) Import(ownerID string, inputs []BookInput) (*ImportResult, error) {
	result := &ImportResult{}
	for i, input := range inputs {
		if _, err := b.Create(ownerID, input); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

// Export returns every listing owned by the user.
func (b *BookService) Export(ownerID string) ([]*exchange.Book, error) {
	books, err := b.books.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	owned := make([]*exchange.Book, 0)
	for _, book := range books {
		if book.OwnerID == ownerID {
			owned = append(owned, book)
		}
	}
	sortBooks(owned, "createdAt", "desc")
	return owned, nil
}

func matchesFilters(book *exchange.Book, f BookFilters) bool {
	if f.Genre != "" && book.Genre != f.Genre {
		return false
	}
	if f.Condition != "" && string(book.Condition) != f.Condition {
		return false
	}
	if f.Status != "" && string(book.Status) != f.Status {
		return false
	}
	if f.OwnerID != "" && book.OwnerID != f.OwnerID {
		return false
	}
	if f.Location != "" && !containsFold(book.Location, f.Location) {
		return false
	}
	if f.Search != "" && !containsFold(book.Title, f.Search) &&
		!containsFold(book.Author, f.Search) && !containsFold(book.Description, f.Search) {
		return false
	}
	return true
}

func sortBooks(books []*exchange.Book, sortBy, order string) {
	desc := order != "asc"
	sort.SliceStable(books, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "title":
			less = strings.ToLower(books[i].Title) < strings.ToLower(books[j].Title)
		case "author":
			less = strings.ToLower(books[i].Author) < strings.ToLower(books[j].Author)
		default:
			less = books[i].CreatedAt.Before(books[j].CreatedAt)
		}
		if desc {
			return !less && !equalBooksKey(books[i], books[j], sortBy)
		}
		return less
	})
}

func equalBooksKey(a, b *exchange.Book, sortBy string) bool {
	switch sortBy {
	case "title":
		return strings.EqualFold(a.Title, b.Title)
	case "author":
		return strings.EqualFold(a.Author, b.Author)
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
