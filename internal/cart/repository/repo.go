package repository

import (
	"context"
	"time"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/cart/domain"
	"github.com/uni-mart/unimart-backend/internal/docstore"
	listings "github.com/uni-mart/unimart-backend/internal/listings/domain"
)

// Repo maintains the per-identity set of chosen listing references in
// the remote "carts" collection.
type Repo struct {
	store docstore.Store
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{store: store}
}

// Add writes a create-or-replace entry keyed by {uid}_{postId} with a
// snapshot of the listing's display fields. Re-adding the same
// listing overwrites the entry instead of duplicating it.
func (r *Repo) Add(ctx context.Context, identity *auth.Identity, listing *listings.Listing) (string, error) {
	if identity == nil {
		return "", domain.ErrUnauthenticated
	}

	cartID := domain.EntryID(identity.UID, listing.ID)
	err := r.store.Set(ctx, docstore.CollectionCarts, cartID, map[string]interface{}{
		"userId":   identity.UID,
		"postId":   listing.ID,
		"title":    listing.Title,
		"price":    listing.Price,
		"imageUrl": listing.ImageURL,
		"category": listing.Category,
		"addedAt":  time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return cartID, nil
}

// List fails soft: no identity means an empty cart, not an error.
func (r *Repo) List(ctx context.Context, identity *auth.Identity) ([]domain.Entry, error) {
	if identity == nil {
		return []domain.Entry{}, nil
	}

	docs, err := r.store.Query(ctx, docstore.CollectionCarts, docstore.Query{
		Filters: []docstore.Filter{{Field: "userId", Value: identity.UID}},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromFields(d.ID, d.Fields))
	}
	return out, nil
}

// Remove deletes unconditionally; removing an absent or foreign entry
// is not checked. Same trust boundary as listing update/delete.
func (r *Repo) Remove(ctx context.Context, cartID string) error {
	return r.store.Delete(ctx, docstore.CollectionCarts, cartID)
}

func fromFields(cartID string, fields map[string]interface{}) domain.Entry {
	e := domain.Entry{
		CartID:   cartID,
		UserID:   asString(fields["userId"]),
		PostID:   asString(fields["postId"]),
		Title:    asString(fields["title"]),
		Price:    asFloat(fields["price"]),
		ImageURL: asString(fields["imageUrl"]),
		Category: asString(fields["category"]),
	}
	if t, ok := fields["addedAt"].(time.Time); ok {
		e.AddedAt = t
	}
	return e
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asFloat is the defensive price coercion: anything non-numeric in
// the stored document counts as 0.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
