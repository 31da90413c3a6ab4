package repository

import (
	"context"
	"errors"
	"time"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/docstore"
	"github.com/uni-mart/unimart-backend/internal/listings/domain"
)

// Repo provides the typed accessors over the remote "posts"
// collection. It holds no cache: every call re-queries the store.
type Repo struct {
	store docstore.Store
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{store: store}
}

// Create stamps seller identity, status and a server-assigned
// creation timestamp, then inserts the listing. The seller fields
// come from the caller-supplied identity and are not re-verified.
func (r *Repo) Create(ctx context.Context, identity *auth.Identity, n domain.NewListing) (string, error) {
	if identity == nil {
		return "", domain.ErrUnauthenticated
	}

	return r.store.Insert(ctx, docstore.CollectionPosts, map[string]interface{}{
		"title":         n.Title,
		"price":         n.Price,
		"category":      n.Category,
		"description":   n.Description,
		"imageUrl":      n.ImageURL,
		"contactNumber": n.ContactNumber,
		"sellerId":      identity.UID,
		"sellerEmail":   identity.Email,
		"status":        domain.StatusAvailable,
		"createdAt":     docstore.ServerTimestamp,
	})
}

// ListAll returns every listing, newest first. No pagination and no
// limit: each call transfers the full collection. Known scalability
// ceiling, kept deliberately.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Listing, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionPosts, docstore.Query{
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return fromDocuments(docs), nil
}

// ListByOwner returns the identity's own listings, newest first,
// filtered server-side.
func (r *Repo) ListByOwner(ctx context.Context, identity *auth.Identity) ([]domain.Listing, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	docs, err := r.store.Query(ctx, docstore.CollectionPosts, docstore.Query{
		Filters: []docstore.Filter{{Field: "sellerId", Value: identity.UID}},
		OrderBy: "createdAt",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	return fromDocuments(docs), nil
}

// GetByID returns nil (not an error) for an absent listing.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	fields, err := r.store.Get(ctx, docstore.CollectionPosts, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	l := fromFields(id, fields)
	return &l, nil
}

// Update merges the patch into the document and stamps updatedAt.
// Ownership is not re-checked here; the UI layer is trusted to have
// filtered to the owner's listings.
func (r *Repo) Update(ctx context.Context, id string, p domain.Patch) error {
	partial := map[string]interface{}{
		"updatedAt": docstore.ServerTimestamp,
	}
	if p.Title != nil {
		partial["title"] = *p.Title
	}
	if p.Price != nil {
		partial["price"] = *p.Price
	}
	if p.Category != nil {
		partial["category"] = *p.Category
	}
	if p.Description != nil {
		partial["description"] = *p.Description
	}
	if p.ImageURL != nil {
		partial["imageUrl"] = *p.ImageURL
	}
	if p.ContactNumber != nil {
		partial["contactNumber"] = *p.ContactNumber
	}
	if p.Status != nil {
		partial["status"] = *p.Status
	}

	return r.store.UpdateMerge(ctx, docstore.CollectionPosts, id, partial)
}

// Delete removes the listing unconditionally. Cart entries that
// reference it are left behind; see the audit package.
func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionPosts, id)
}

func fromDocuments(docs []docstore.Document) []domain.Listing {
	out := make([]domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromFields(d.ID, d.Fields))
	}
	return out
}

// fromFields coerces the store's dynamic document shape into the
// typed Listing, isolating the rest of the system from it.
func fromFields(id string, fields map[string]interface{}) domain.Listing {
	l := domain.Listing{
		ID:            id,
		Title:         asString(fields["title"]),
		Price:         asFloat(fields["price"]),
		Category:      asString(fields["category"]),
		Description:   asString(fields["description"]),
		ImageURL:      asString(fields["imageUrl"]),
		ContactNumber: asString(fields["contactNumber"]),
		SellerID:      asString(fields["sellerId"]),
		SellerEmail:   asString(fields["sellerEmail"]),
		Status:        asString(fields["status"]),
	}
	if t, ok := fields["createdAt"].(time.Time); ok {
		l.CreatedAt = t
	}
	if t, ok := fields["updatedAt"].(time.Time); ok {
		l.UpdatedAt = &t
	}
	return l
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asFloat treats any non-numeric price as 0, matching the defensive
// coercion the cart subtotal relies on.
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
