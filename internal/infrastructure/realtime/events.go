package realtime

import "encoding/json"

// Client-initiated events.
const (
	EventBookJoin    = "book:join"
	EventBookLeave   = "book:leave"
	EventThreadJoin  = "thread:join"
	EventThreadLeave = "thread:leave"
	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
)

// Server-initiated events.
const (
	EventBookViewers     = "book:viewers"
	EventTypingUpdate    = "typing:update"
	EventNotificationNew = "notification:new"
	EventMessageNew      = "message:new"
	EventMessageRead     = "message:read"
	EventThreadUpdate    = "thread:update"
)

// Envelope is the wire format for every message on the live channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RoomRequest is the client payload for join/leave and typing events.
type RoomRequest struct {
	BookID   string `json:"bookId,omitempty"`
	ThreadID string `json:"threadId,omitempty"`
}

// ViewersPayload reports a book room's live audience.
type ViewersPayload struct {
	Count     int      `json:"count"`
	Usernames []string `json:"usernames"`
}

// TypingPayload is broadcast to thread peers while a participant types.
type TypingPayload struct {
	ThreadID string `json:"threadId"`
	IsTyping bool   `json:"isTyping"`
	UserName string `json:"userName,omitempty"`
}

func encodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

const (
	bookRoomPrefix   = "book:"
	threadRoomPrefix = "thread:"
)

func bookRoom(bookID string) string     { return bookRoomPrefix + bookID }
func threadRoom(threadID string) string { return threadRoomPrefix + threadID }

func isBookRoom(room string) bool {
	return len(room) > len(bookRoomPrefix) && room[:len(bookRoomPrefix)] == bookRoomPrefix
}

func bookIDFromRoom(room string) string {
	return room[len(bookRoomPrefix):]
}
