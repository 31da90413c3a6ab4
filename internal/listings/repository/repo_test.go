package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/docstore"
	"github.com/uni-mart/unimart-backend/internal/listings/domain"
)

var seller = &auth.Identity{UID: "u1", Email: "u1@campus.edu"}

func newRepo() (*Repo, *docstore.MemoryStore) {
	store := docstore.NewMemoryStore()
	return NewRepo(store), store
}

func TestCreate_RequiresIdentity(t *testing.T) {
	repo, _ := newRepo()

	_, err := repo.Create(context.Background(), nil, domain.NewListing{Title: "Bike"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, err := repo.Create(ctx, seller, domain.NewListing{
		Title:         "Bike",
		Price:         15000,
		Category:      "Vehicles",
		Description:   "Barely used",
		ImageURL:      "https://img.example/bike.jpg",
		ContactNumber: "0771234567",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("created listing not found")
	}

	if got.Title != "Bike" || got.Price != 15000 || got.Category != "Vehicles" {
		t.Errorf("visible fields = %+v, want the created values", got)
	}
	if got.Status != domain.StatusAvailable {
		t.Errorf("status = %q, want %q", got.Status, domain.StatusAvailable)
	}
	if got.SellerID != "u1" || got.SellerEmail != "u1@campus.edu" {
		t.Errorf("seller stamp = %q/%q, want u1/u1@campus.edu", got.SellerID, got.SellerEmail)
	}
	if got.CreatedAt.IsZero() {
		t.Error("createdAt not stamped")
	}
	if got.UpdatedAt != nil {
		t.Error("updatedAt present on a fresh listing")
	}
}

func TestGetByID_AbsentIsNilNotError(t *testing.T) {
	repo, _ := newRepo()

	got, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestListAll_NewestFirst(t *testing.T) {
	repo, store := newRepo()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"oldest", "middle", "newest"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		store.SetClock(func() time.Time { return ts })
		if _, err := repo.Create(ctx, seller, domain.NewListing{Title: title}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"newest", "middle", "oldest"}
	if len(all) != len(want) {
		t.Fatalf("got %d listings, want %d", len(all), len(want))
	}
	for i, w := range want {
		if all[i].Title != w {
			t.Errorf("all[%d].Title = %q, want %q", i, all[i].Title, w)
		}
	}
}

func TestListByOwner_FiltersToSeller(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()
	other := &auth.Identity{UID: "u2", Email: "u2@campus.edu"}

	if _, err := repo.Create(ctx, seller, domain.NewListing{Title: "Bike"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, other, domain.NewListing{Title: "Desk"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := repo.ListByOwner(ctx, seller)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Bike" {
		t.Errorf("owner listings = %+v, want just Bike", mine)
	}

	// The same listing is visible in the full directory for everyone.
	all, _ := repo.ListAll(ctx)
	if len(all) != 2 {
		t.Errorf("ListAll returned %d, want 2", len(all))
	}
}

func TestListByOwner_RequiresIdentity(t *testing.T) {
	repo, _ := newRepo()

	_, err := repo.ListByOwner(context.Background(), nil)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestUpdate_MergesAndStampsUpdatedAt(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, _ := repo.Create(ctx, seller, domain.NewListing{Title: "Bike", Price: 15000})

	newPrice := 12000.0
	if err := repo.Update(ctx, id, domain.Patch{Price: &newPrice}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.GetByID(ctx, id)
	if got.Price != 12000 {
		t.Errorf("price = %v, want 12000", got.Price)
	}
	if got.Title != "Bike" {
		t.Errorf("title = %q, want Bike (merge must keep untouched fields)", got.Title)
	}
	if got.UpdatedAt == nil {
		t.Error("updatedAt not stamped by update")
	}
}

func TestDelete_Unconditional(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	id, _ := repo.Create(ctx, seller, domain.NewListing{Title: "Bike"})
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil || got != nil {
		t.Errorf("after delete: listing=%v err=%v, want nil/nil", got, err)
	}

	// Deleting again is a no-op, not an error.
	if err := repo.Delete(ctx, id); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestFromFields_CoercesBadPriceToZero(t *testing.T) {
	l := fromFields("p1", map[string]interface{}{
		"title": "Bike",
		"price": "not-a-number",
	})
	if l.Price != 0 {
		t.Errorf("price = %v, want 0 for non-numeric stored value", l.Price)
	}
}
