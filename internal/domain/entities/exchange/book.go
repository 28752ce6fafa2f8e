package exchange

import "time"

type BookStatus string

const (
	StatusAvailable BookStatus = "available"
	StatusReserved  BookStatus = "reserved"
	StatusExchanged BookStatus = "exchanged"
)

type BookCondition string

const (
	ConditionNew     BookCondition = "new"
	ConditionLikeNew BookCondition = "like-new"
	ConditionGood    BookCondition = "good"
	ConditionFair    BookCondition = "fair"
	ConditionPoor    BookCondition = "poor"
)

// Genres lists the accepted book genres.
var Genres = []string{
	"fiction", "non-fiction", "mystery", "sci-fi", "fantasy", "romance",
	"thriller", "biography", "history", "science", "self-help",
	"children", "young-adult", "poetry", "comics", "other",
}

type Book struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Author            string        `json:"author"`
	Genre             string        `json:"genre"`
	Description       string        `json:"description"`
	Condition         BookCondition `json:"condition"`
	Location          string        `json:"location"`
	ContactPreference string        `json:"contactPreference"`
	ImageURL          *string       `json:"imageUrl,omitempty"`
	OwnerID           string        `json:"ownerId"`
	OwnerName         string        `json:"ownerName"`
	Status            BookStatus    `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// ValidGenre reports whether g is one of the accepted genres.
func ValidGenre(g string) bool {
	for _, genre := range Genres {
		if genre == g {
			return true
		}
	}
	return false
}
