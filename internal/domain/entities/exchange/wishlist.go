package exchange

import "time"

type WishlistItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Author     *string   `json:"author,omitempty"`
	MatchCount int       `json:"matchCount"`
	CreatedAt  time.Time `json:"createdAt"`
}
