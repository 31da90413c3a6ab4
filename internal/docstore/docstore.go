// Package docstore is the boundary to the external document store.
// It exposes the primitive operations the marketplace needs against
// its named collections: insert with a generated id, set by id
// (create-or-replace), get by id, filtered-and-ordered query,
// update-merge and delete by id. Nothing above this package touches
// the vendor SDK directly.
package docstore

import (
	"context"
	"errors"
)

// Collection names owned by the remote store.
const (
	CollectionPosts = "posts"
	CollectionCarts = "carts"
)

// ErrNotFound reports that a requested document does not exist.
// Callers that treat absence as a normal outcome check for it with
// errors.Is and translate it to a nil result.
var ErrNotFound = errors.New("document not found")

// ServerTimestamp is a sentinel field value replaced by the store's
// own write time on insert/set/merge.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

// Document is a raw document as returned by a query.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Filter is a single equality constraint on a field.
type Filter struct {
	Field string
	Value interface{}
}

// Query describes a filtered, ordered read of a collection.
// Desc orders by the named field newest-first, matching the only
// ordering the marketplace uses.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
}

// Store is the document store boundary.
type Store interface {
	// Insert creates a document with a store-generated id.
	Insert(ctx context.Context, col string, fields map[string]interface{}) (string, error)

	// Set creates or fully replaces the document with the given id.
	Set(ctx context.Context, col, id string, fields map[string]interface{}) error

	// Get returns the document's fields, or ErrNotFound.
	Get(ctx context.Context, col, id string) (map[string]interface{}, error)

	// Query returns documents matching all filters, ordered per q.
	Query(ctx context.Context, col string, q Query) ([]Document, error)

	// UpdateMerge merges partial fields into an existing document.
	UpdateMerge(ctx context.Context, col, id string, partial map[string]interface{}) error

	// Delete removes the document. Deleting an absent document is not
	// an error.
	Delete(ctx context.Context, col, id string) error
}
