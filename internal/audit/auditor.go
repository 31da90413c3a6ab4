// Package audit reports cart entries orphaned by listing deletes.
// Deleting a listing does not cascade into carts, so entries pointing
// at a gone listing accumulate. The auditor counts them and reports;
// it never repairs them, the inconsistency is owned by the client
// flows that created it.
package audit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/uni-mart/unimart-backend/internal/docstore"
)

// Reporter receives the orphan count of each run.
type Reporter interface {
	SetOrphanEntries(n int)
}

// Auditor scans the carts collection against the posts collection.
type Auditor struct {
	store    docstore.Store
	reporter Reporter
}

func NewAuditor(store docstore.Store, reporter Reporter) *Auditor {
	return &Auditor{store: store, reporter: reporter}
}

// Run counts cart entries whose postId no longer resolves and reports
// the count. Read-only: neither collection is mutated.
func (a *Auditor) Run(ctx context.Context) (int, error) {
	entries, err := a.store.Query(ctx, docstore.CollectionCarts, docstore.Query{})
	if err != nil {
		return 0, err
	}

	orphans := 0
	for _, e := range entries {
		postID, _ := e.Fields["postId"].(string)
		if postID == "" {
			orphans++
			continue
		}

		_, err := a.store.Get(ctx, docstore.CollectionPosts, postID)
		if err == nil {
			continue
		}
		if errors.Is(err, docstore.ErrNotFound) {
			orphans++
			continue
		}
		return 0, err
	}

	if a.reporter != nil {
		a.reporter.SetOrphanEntries(orphans)
	}
	slog.Info("cart orphan audit completed",
		slog.Int("entries", len(entries)),
		slog.Int("orphans", orphans),
	)
	return orphans, nil
}
