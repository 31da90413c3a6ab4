package domain

import (
	"errors"
	"time"
)

// StatusAvailable is stamped on every new listing. No other status is
// produced anywhere yet.
const StatusAvailable = "available"

// ErrUnauthenticated reports an operation that requires an identity
// being called without one.
var ErrUnauthenticated = errors.New("user not authenticated")

// Listing is a for-sale item document owned by a seller identity.
type Listing struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Price         float64    `json:"price"`
	Category      string     `json:"category"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"imageUrl"`
	ContactNumber string     `json:"contactNumber"`
	SellerID      string     `json:"sellerId"`
	SellerEmail   string     `json:"sellerEmail"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// NewListing carries the caller-supplied fields of a listing to be
// created. Seller identity, status and timestamps are stamped by the
// directory, not the caller.
type NewListing struct {
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl"`
	ContactNumber string  `json:"contactNumber"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title         *string  `json:"title"`
	Price         *float64 `json:"price"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description"`
	ImageURL      *string  `json:"imageUrl"`
	ContactNumber *string  `json:"contactNumber"`
	Status        *string  `json:"status"`
}

// Empty reports whether the patch carries no fields at all.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Price == nil && p.Category == nil &&
		p.Description == nil && p.ImageURL == nil && p.ContactNumber == nil && p.Status == nil
}
