package exchange

import "time"

type Rating struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	OwnerID   string    `json:"ownerId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
