package exchange

import "time"

type NotificationType string

const (
	NotificationMessageReceived NotificationType = "message_received"
	NotificationRatingReceived  NotificationType = "rating_received"
	NotificationWishlistMatch   NotificationType = "wishlist_match"
	NotificationBookStatus      NotificationType = "book_status"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Link      *string          `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
