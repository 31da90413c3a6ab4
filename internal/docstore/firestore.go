package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on a Firestore database.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Insert(ctx context.Context, col string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(col).Add(ctx, translateSentinels(fields))
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", col, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, col, id string, fields map[string]interface{}) error {
	if _, err := s.client.Collection(col).Doc(id).Set(ctx, translateSentinels(fields)); err != nil {
		return fmt.Errorf("set %s/%s: %w", col, id, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, col, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(col).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", col, id, err)
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Query(ctx context.Context, col string, q Query) ([]Document, error) {
	fq := s.client.Collection(col).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}

	iter := fq.Documents(ctx)
	defer iter.Stop()

	var out []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", col, err)
		}
		out = append(out, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return out, nil
}

func (s *FirestoreStore) UpdateMerge(ctx context.Context, col, id string, partial map[string]interface{}) error {
	_, err := s.client.Collection(col).Doc(id).Set(ctx, translateSentinels(partial), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("merge %s/%s: %w", col, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, col, id string) error {
	// Firestore deletes are unconditional; an absent document is a no-op.
	if _, err := s.client.Collection(col).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", col, id, err)
	}
	return nil
}

// translateSentinels maps the package-level ServerTimestamp sentinel
// to Firestore's own server-timestamp marker.
func translateSentinels(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
