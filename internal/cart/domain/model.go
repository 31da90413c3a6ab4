package domain

import (
	"errors"
	"time"
)

// ErrUnauthenticated reports an add without a signed-in identity.
var ErrUnauthenticated = errors.New("please login first")

// Entry is a denormalized reference from a user identity to a chosen
// listing. Display fields are a snapshot taken at add time; later
// edits to the listing do not propagate here. Deliberate trade-off:
// fewer reads, staleness accepted.
type Entry struct {
	CartID   string    `json:"cartId"`
	UserID   string    `json:"userId"`
	PostID   string    `json:"postId"`
	Title    string    `json:"title"`
	Price    float64   `json:"price"`
	ImageURL string    `json:"imageUrl"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"addedAt"`
}

// EntryID derives the cart document id. The deterministic key makes
// add idempotent: at most one entry per (user, listing) pair.
func EntryID(userID, postID string) string {
	return userID + "_" + postID
}

// Subtotal sums entry prices. Entries whose stored price was
// non-numeric arrive here coerced to 0 and contribute nothing.
func Subtotal(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Price
	}
	return sum
}
