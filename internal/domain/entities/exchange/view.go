package exchange

import "time"

// BookView is a persisted record of one distinct viewing session of a book.
// Records are append-only; retention cleanup prunes old ones.
type BookView struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    *string   `json:"userId,omitempty"`
	UserName  *string   `json:"userName,omitempty"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}
