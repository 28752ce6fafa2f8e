package exchange

import "time"

type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type ThreadParticipant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ThreadBook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type MessageThread struct {
	ID           string              `json:"id"`
	Participants []ThreadParticipant `json:"participants"`
	Book         *ThreadBook         `json:"book,omitempty"`
	LastMessage  *Message            `json:"lastMessage,omitempty"`
	UnreadCount  int                 `json:"unreadCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// HasParticipant reports whether userID takes part in the thread.
func (t *MessageThread) HasParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID, if any.
func (t *MessageThread) OtherParticipant(userID string) *ThreadParticipant {
	for i := range t.Participants {
		if t.Participants[i].ID != userID {
			return &t.Participants[i]
		}
	}
	return nil
}
