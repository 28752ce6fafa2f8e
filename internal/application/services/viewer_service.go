package services

import (
	"sync"
	"time"

	"github.com/shelfshare/shelfshare-go/internal/domain/entities/exchange"
	"github.com/shelfshare/shelfshare-go/internal/domain/repositories"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/security"
)

// ViewerService owns the persisted view log: deduplicated recording,
// recent-activity queries and retention cleanup.
type ViewerService struct {
	views        repositories.ViewRepository
	dedupWindow  time.Duration
	activeWindow time.Duration
	logger       *logging.ChanneledLogger

	// Serializes the dedup check against the store so two closings of the
	// same viewing session cannot both pass the window check.
	mu sync.Mutex
}

// NewViewerService creates a new viewer service
func NewViewerService(views repositories.ViewRepository, dedupWindow, activeWindow time.Duration, logger *logging.ChanneledLogger) *ViewerService {
	return &ViewerService{
		views:        views,
		dedupWindow:  dedupWindow,
		activeWindow: activeWindow,
		logger:       logger,
	}
}

// RecordView appends a view record unless the same (book, session) pair
// already produced one inside the dedup window. Failures are logged and
// swallowed; view recording never disturbs the caller.
func (v *ViewerService) RecordView(bookID, userID, userName, sessionID string) {
	if bookID == "" || sessionID == "" {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	views, err := v.views.FindByBook(bookID)
	if err != nil {
		v.logger.Views().Error("Failed to load views for dedup check", "bookId", bookID, "error", err)
		return
	}
	cutoff := time.Now().UTC().Add(-v.dedupWindow)
	for _, view := range views {
		if view.SessionID == sessionID && view.Timestamp.After(cutoff) {
			v.logger.Views().Debug("Duplicate view suppressed", "bookId", bookID, "sessionId", sessionID)
			return
		}
	}

	record := &exchange.BookView{
		ID:        security.GenerateULID(),
		BookID:    bookID,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
	if userID != "" {
		record.UserID = &userID
	}
	if userName != "" {
		record.UserName = &userName
	}
	if err := v.views.Store(record); err != nil {
		v.logger.Views().Error("Failed to store view", "bookId", bookID, "error", err)
		return
	}
	v.logger.Views().Debug("View recorded", "bookId", bookID, "sessionId", sessionID)
}

// RecentViewers summarizes a book's audience inside the active window.
type RecentViewers struct {
	Count     int      `json:"count"`
	Usernames []string `json:"usernames"`
}

// ActiveViewers reports distinct recent sessions for a book from the view
// log. Sessions without a known user are counted but not named.
func (v *ViewerService) ActiveViewers(bookID string) (*RecentViewers, error) {
	views, err := v.views.FindByBook(bookID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-v.activeWindow)
	sessions := make(map[string]bool)
	named := make(map[string]bool)
	usernames := make([]string, 0)
	for _, view := range views {
		if !view.Timestamp.After(cutoff) || sessions[view.SessionID] {
			continue
		}
		sessions[view.SessionID] = true
		if view.UserName != nil && *view.UserName != "" && !named[*view.UserName] {
			named[*view.UserName] = true
			usernames = append(usernames, *view.UserName)
		}
	}
	return &RecentViewers{Count: len(sessions), Usernames: usernames}, nil
}

// TotalViews counts every recorded view of a book.
func (v *ViewerService) TotalViews(bookID string) (int, error) {
	views, err := v.views.FindByBook(bookID)
	if err != nil {
		return 0, err
	}
	return len(views), nil
}

// CleanupOldViews prunes records older than the retention cutoff and
// returns how many were removed.
func (v *ViewerService) CleanupOldViews(retention time.Duration) (int, error) {
	return v.views.DeleteOlderThan(time.Now().UTC().Add(-retention))
}
