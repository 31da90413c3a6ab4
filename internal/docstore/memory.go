package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local runs
// without Firestore credentials. Semantics mirror FirestoreStore:
// ServerTimestamp resolves to the current time, deletes are
// unconditional, queries are equality-filtered and field-ordered.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[string]map[string]memoryDoc
	seq  int64

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

type memoryDoc struct {
	fields map[string]interface{}
	seq    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cols: make(map[string]map[string]memoryDoc),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Insert(_ context.Context, col string, fields map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.put(col, id, fields)
	return id, nil
}

func (s *MemoryStore) Set(_ context.Context, col, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(col, id, fields)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, col, id string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.cols[col][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyFields(doc.fields), nil
}

func (s *MemoryStore) Query(_ context.Context, col string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ranked struct {
		doc Document
		seq int64
	}

	var matched []ranked
	for id, doc := range s.cols[col] {
		if !matches(doc.fields, q.Filters) {
			continue
		}
		matched = append(matched, ranked{
			doc: Document{ID: id, Fields: copyFields(doc.fields)},
			seq: doc.seq,
		})
	}

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := matched[i].doc.Fields[q.OrderBy], matched[j].doc.Fields[q.OrderBy]
			if fieldLess(a, b) {
				return !q.Desc
			}
			if fieldLess(b, a) {
				return q.Desc
			}
			// Insertion order breaks timestamp ties.
			if q.Desc {
				return matched[i].seq > matched[j].seq
			}
			return matched[i].seq < matched[j].seq
		})
	}

	out := make([]Document, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.doc)
	}
	return out, nil
}

func (s *MemoryStore) UpdateMerge(_ context.Context, col, id string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.cols[col][id]
	if !ok {
		// Merge into an absent document creates it, as Firestore does.
		s.put(col, id, partial)
		return nil
	}
	for k, v := range s.resolve(partial) {
		doc.fields[k] = v
	}
	s.cols[col][id] = doc
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, col, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cols[col], id)
	return nil
}

// SetClock pins the store's clock. Test helper.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) put(col, id string, fields map[string]interface{}) {
	if s.cols[col] == nil {
		s.cols[col] = make(map[string]memoryDoc)
	}
	s.seq++
	s.cols[col][id] = memoryDoc{fields: s.resolve(fields), seq: s.seq}
}

func (s *MemoryStore) resolve(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = s.now()
			continue
		}
		out[k] = v
	}
	return out
}

func matches(fields map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if fields[f.Field] != f.Value {
			return false
		}
	}
	return true
}

func fieldLess(a, b interface{}) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Before(bt)
	}

	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as < bs
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
