// Package realtime implements the live connection layer: per-connection
// sessions, book presence tracking, and room-scoped event broadcast over
// WebSocket transport.
package realtime

// Session is the live, in-memory record of one connection's authenticated
// identity and room membership. Sessions exist only for the lifetime of the
// connection and are owned exclusively by the Registry.
type Session struct {
	ConnID      string
	UserID      string
	DisplayName string
	CurrentRoom string // room key, empty when the connection is in no room
}

// Registry maps connection ids to sessions and keeps a secondary
// userID -> latest connection id index for targeted delivery. It carries no
// synchronization of its own; the Hub serializes all access.
type Registry struct {
	sessions  map[string]*Session
	userConns map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		userConns: make(map[string]string),
	}
}

// Create registers a session for an authenticated connection. A user with
// multiple simultaneous connections overwrites the index with the newest
// one, so targeted pushes reach only the most recent connection.
func (r *Registry) Create(connID, userID string) *Session {
	sess := &Session{ConnID: connID, UserID: userID}
	r.sessions[connID] = sess
	r.userConns[userID] = connID
	return sess
}

// Lookup returns the session for a connection, or nil.
func (r *Registry) Lookup(connID string) *Session {
	return r.sessions[connID]
}

// ConnForUser returns the latest live connection id for a user.
func (r *Registry) ConnForUser(userID string) (string, bool) {
	connID, ok := r.userConns[userID]
	return connID, ok
}

// SetDisplayName attaches a resolved display name to the session.
func (r *Registry) SetDisplayName(connID, name string) {
	if sess, ok := r.sessions[connID]; ok {
		sess.DisplayName = name
	}
}

// SetCurrentRoom updates the session's single current-room slot.
func (r *Registry) SetCurrentRoom(connID, room string) {
	if sess, ok := r.sessions[connID]; ok {
		sess.CurrentRoom = room
	}
}

// Destroy removes the session and releases the user index entry it owns.
// It returns the destroyed session so the caller can clean up presence
// state for its last room.
func (r *Registry) Destroy(connID string) *Session {
	sess, ok := r.sessions[connID]
	if !ok {
		return nil
	}
	delete(r.sessions, connID)
	// Only release the index if this connection still owns it; a newer
	// connection from the same user must keep receiving targeted pushes.
	if current, ok := r.userConns[sess.UserID]; ok && current == connID {
		delete(r.userConns, sess.UserID)
	}
	return sess
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
