// Package feed derives the public home feed from the full listing
// directory. Composition is pure and synchronous; it is re-run on
// every request from the directory's output.
package feed

import (
	"strings"

	"github.com/uni-mart/unimart-backend/internal/listings/domain"
)

// CategoryAll passes every category through the filter.
const CategoryAll = "All"

// Compose filters listings for the given viewer. A listing survives
// when all three hold: it is not the viewer's own, it matches the
// selected category (or CategoryAll), and its title or description
// contains the query case-insensitively. Ordering is inherited from
// the input; filtering never reorders. An empty result is a valid
// outcome, not an error.
//
// Own listings are excluded here but not in the owner-scoped "my ads"
// view, which intentionally shows them.
func Compose(listings []domain.Listing, viewerUID, query, category string) []domain.Listing {
	if category == "" {
		category = CategoryAll
	}
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if viewerUID != "" && l.SellerID == viewerUID {
			continue
		}
		if category != CategoryAll && l.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}
		out = append(out, l)
	}
	return out
}
