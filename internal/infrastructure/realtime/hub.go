package realtime

import (
	"sync"

	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
)

// sink is the delivery end of a registered connection. deliver must not
// block; it reports false when the message was dropped.
type sink interface {
	deliver(message []byte) bool
}

// Hub owns all live connection state: the session registry, the presence
// tracker, and room membership. Every composite operation runs under one
// mutex, which is what makes the join/leave/broadcast transitions atomic
// with respect to each other.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	tracker  *Tracker
	rooms    map[string]map[string]sink // room key -> connID -> sink
	conns    map[string]sink

	views   ViewRecorder
	names   DisplayNameResolver
	threads ThreadAccessChecker
	logger  *logging.ChanneledLogger
}

// pendingView is a view record queued for persistence once the in-memory
// transition has fully completed.
type pendingView struct {
	bookID    string
	userID    string
	userName  string
	sessionID string
}

// NewHub creates the hub with its collaborators.
func NewHub(views ViewRecorder, names DisplayNameResolver, threads ThreadAccessChecker, logger *logging.ChanneledLogger) *Hub {
	return &Hub{
		registry: NewRegistry(),
		tracker:  NewTracker(),
		rooms:    make(map[string]map[string]sink),
		conns:    make(map[string]sink),
		views:    views,
		names:    names,
		threads:  threads,
		logger:   logger,
	}
}

// Register records an authenticated connection. The display name is
// resolved asynchronously and best-effort: until it arrives the connection
// is counted in presence but omitted from the named-viewer list.
func (h *Hub) Register(connID, userID string, s sink) {
	h.mu.Lock()
	h.registry.Create(connID, userID)
	h.conns[connID] = s
	h.mu.Unlock()

	h.logger.Realtime().Info("Client connected", "connId", connID)

	go h.resolveDisplayName(connID, userID)
}

func (h *Hub) resolveDisplayName(connID, userID string) {
	name, ok := h.names.DisplayName(userID)
	if !ok || name == "" {
		return
	}
	h.mu.Lock()
	h.registry.SetDisplayName(connID, name)
	h.mu.Unlock()
}

// Unregister tears down a connection: its session is destroyed, presence
// state released, and a view record queued for its last book room.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	delete(h.conns, connID)
	sess := h.registry.Destroy(connID)
	var pending []pendingView
	if sess != nil {
		pending = h.vacateCurrentRoomLocked(sess)
	}
	h.mu.Unlock()

	h.flushViews(pending)
	h.logger.Realtime().Info("Client disconnected", "connId", connID)
}

// JoinBook moves a connection into a book room, vacating whatever room it
// occupied before (single current-room invariant), and re-broadcasts the
// viewer count to both rooms.
func (h *Hub) JoinBook(connID, bookID string) {
	h.mu.Lock()
	sess := h.registry.Lookup(connID)
	if sess == nil {
		h.mu.Unlock()
		return
	}
	room := bookRoom(bookID)
	if sess.CurrentRoom == room {
		h.mu.Unlock()
		return
	}
	pending := h.vacateCurrentRoomLocked(sess)
	h.addToRoomLocked(room, connID)
	h.tracker.Join(bookID, connID)
	h.registry.SetCurrentRoom(connID, room)
	h.broadcastViewersLocked(bookID)
	h.mu.Unlock()

	h.flushViews(pending)
	h.logger.Realtime().Debug("Joined book room", "connId", connID, "bookId", bookID)
}

// LeaveBook removes a connection from a book room, queues a view record for
// the closed viewing session, and re-broadcasts the updated count. Leaving
// a room the connection never joined is a no-op.
func (h *Hub) LeaveBook(connID, bookID string) {
	h.mu.Lock()
	sess := h.registry.Lookup(connID)
	if sess == nil || !h.tracker.Contains(bookID, connID) {
		h.mu.Unlock()
		return
	}
	room := bookRoom(bookID)
	h.removeFromRoomLocked(room, connID)
	h.tracker.Leave(bookID, connID)
	if sess.CurrentRoom == room {
		h.registry.SetCurrentRoom(connID, "")
	}
	h.broadcastViewersLocked(bookID)
	pending := []pendingView{{bookID: bookID, userID: sess.UserID, userName: sess.DisplayName, sessionID: connID}}
	h.mu.Unlock()

	h.flushViews(pending)
	h.logger.Realtime().Debug("Left book room", "connId", connID, "bookId", bookID)
}

// JoinThread moves a connection into a thread room. Membership is gated on
// thread participation; a rejected join produces no observable effect.
// Thread membership changes carry no presence side effect, but vacating a
// previous book room still updates that room's count.
func (h *Hub) JoinThread(connID, threadID string) {
	h.mu.Lock()
	sess := h.registry.Lookup(connID)
	if sess == nil {
		h.mu.Unlock()
		return
	}
	userID := sess.UserID
	h.mu.Unlock()

	// Participant check hits the thread store; keep it outside the lock.
	if !h.threads.CanAccessThread(threadID, userID) {
		h.logger.Realtime().Debug("Thread join rejected", "connId", connID, "threadId", threadID)
		return
	}

	h.mu.Lock()
	sess = h.registry.Lookup(connID)
	if sess == nil {
		h.mu.Unlock()
		return
	}
	room := threadRoom(threadID)
	if sess.CurrentRoom == room {
		h.mu.Unlock()
		return
	}
	pending := h.vacateCurrentRoomLocked(sess)
	h.addToRoomLocked(room, connID)
	h.registry.SetCurrentRoom(connID, room)
	h.mu.Unlock()

	h.flushViews(pending)
	h.logger.Realtime().Debug("Joined thread room", "connId", connID, "threadId", threadID)
}

// LeaveThread removes a connection from a thread room, silently.
func (h *Hub) LeaveThread(connID, threadID string) {
	h.mu.Lock()
	sess := h.registry.Lookup(connID)
	if sess == nil {
		h.mu.Unlock()
		return
	}
	room := threadRoom(threadID)
	h.removeFromRoomLocked(room, connID)
	if sess.CurrentRoom == room {
		h.registry.SetCurrentRoom(connID, "")
	}
	h.mu.Unlock()
}

// TypingStart fans an "is typing" signal out to the rest of the thread
// room. The signal is transient and never stored.
func (h *Hub) TypingStart(connID, threadID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess := h.registry.Lookup(connID)
	room := threadRoom(threadID)
	if sess == nil || h.rooms[room][connID] == nil {
		return
	}
	name := sess.DisplayName
	if name == "" {
		name = "Someone"
	}
	h.broadcastLocked(room, EventTypingUpdate, TypingPayload{
		ThreadID: threadID,
		IsTyping: true,
		UserName: name,
	}, connID)
}

// TypingStop fans a cessation signal out to the rest of the thread room.
func (h *Hub) TypingStop(connID, threadID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := threadRoom(threadID)
	if h.registry.Lookup(connID) == nil || h.rooms[room][connID] == nil {
		return
	}
	h.broadcastLocked(room, EventTypingUpdate, TypingPayload{
		ThreadID: threadID,
		IsTyping: false,
	}, connID)
}

// SendToUser delivers an event to the user's most recent live connection.
// If the user has no live connection the event is silently dropped: no
// queue, no retry. Notifications persist separately and are fetched on the
// next poll.
func (h *Hub) SendToUser(userID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	connID, ok := h.registry.ConnForUser(userID)
	if !ok {
		return
	}
	s, ok := h.conns[connID]
	if !ok {
		return
	}
	message, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Realtime().Error("Failed to encode event", "event", event, "error", err)
		return
	}
	if !s.deliver(message) {
		h.logger.Realtime().Warn("Send buffer full, event dropped", "event", event, "connId", connID)
	}
}

// BroadcastToThread delivers an event to every connection in a thread room.
func (h *Hub) BroadcastToThread(threadID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(threadRoom(threadID), event, payload, "")
}

// ActiveViewers reports a book room's live audience: the count of distinct
// connections and the display names of those that resolved one. Anonymous
// viewers are counted but not named.
func (h *Hub) ActiveViewers(bookID string) ViewersPayload {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewersPayloadLocked(bookID)
}

func (h *Hub) addToRoomLocked(room, connID string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]sink)
		h.rooms[room] = members
	}
	members[connID] = h.conns[connID]
}

func (h *Hub) removeFromRoomLocked(room, connID string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// vacateCurrentRoomLocked removes the session from its current room. If the
// old room was a book room the presence set shrinks, the room is
// re-broadcast, and a view record is queued for the viewing session that
// just closed.
func (h *Hub) vacateCurrentRoomLocked(sess *Session) []pendingView {
	room := sess.CurrentRoom
	if room == "" {
		return nil
	}
	h.removeFromRoomLocked(room, sess.ConnID)
	h.registry.SetCurrentRoom(sess.ConnID, "")

	if !isBookRoom(room) {
		return nil
	}
	bookID := bookIDFromRoom(room)
	h.tracker.Leave(bookID, sess.ConnID)
	h.broadcastViewersLocked(bookID)
	return []pendingView{{bookID: bookID, userID: sess.UserID, userName: sess.DisplayName, sessionID: sess.ConnID}}
}

func (h *Hub) viewersPayloadLocked(bookID string) ViewersPayload {
	connIDs := h.tracker.Viewers(bookID)
	usernames := make([]string, 0, len(connIDs))
	for _, connID := range connIDs {
		if sess := h.registry.Lookup(connID); sess != nil && sess.DisplayName != "" {
			usernames = append(usernames, sess.DisplayName)
		}
	}
	return ViewersPayload{Count: len(connIDs), Usernames: usernames}
}

func (h *Hub) broadcastViewersLocked(bookID string) {
	h.broadcastLocked(bookRoom(bookID), EventBookViewers, h.viewersPayloadLocked(bookID), "")
}

// broadcastLocked fans an event out to every member of a room except the
// one named by except. Delivery is non-blocking; slow consumers lose
// intermediate updates rather than stalling the hub.
func (h *Hub) broadcastLocked(room, event string, payload any, except string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	message, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Realtime().Error("Failed to encode event", "event", event, "error", err)
		return
	}
	for connID, s := range members {
		if connID == except || s == nil {
			continue
		}
		if !s.deliver(message) {
			h.logger.Realtime().Warn("Send buffer full, event dropped", "event", event, "connId", connID)
		}
	}
}

// flushViews persists queued view records after the in-memory state has
// reached its final value for the event.
func (h *Hub) flushViews(pending []pendingView) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Realtime().Error("Panic recovered while recording views", "error", r)
		}
	}()
	for _, p := range pending {
		h.views.RecordView(p.bookID, p.userID, p.userName, p.sessionID)
	}
}
