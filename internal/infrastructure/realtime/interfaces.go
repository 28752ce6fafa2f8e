package realtime

// ViewRecorder persists a view record when a viewing session of a book
// closes. Implementations deduplicate by (bookID, sessionID) within their
// configured window.
type ViewRecorder interface {
	RecordView(bookID, userID, userName, sessionID string)
}

// DisplayNameResolver resolves a user's display name from the identity
// store. The second return is false when the user has no profile.
type DisplayNameResolver interface {
	DisplayName(userID string) (string, bool)
}

// ThreadAccessChecker reports whether a user participates in a thread.
type ThreadAccessChecker interface {
	CanAccessThread(threadID, userID string) bool
}

// Broadcaster is the push surface exposed to application services.
type Broadcaster interface {
	SendToUser(userID, event string, payload any)
	BroadcastToThread(threadID, event string, payload any)
}
