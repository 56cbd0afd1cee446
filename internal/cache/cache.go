// Package cache holds the bounded, recency-ordered working set of
// enriched items and publishes it as an immutable snapshot.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"newspulse/internal/news"
)

// Snapshot is the published working set: items sorted by publish time
// descending, truncated to capacity, with Vectors[i] belonging to
// Items[i]. Snapshots are never mutated after publication.
type Snapshot struct {
	Items     []news.Item
	Vectors   [][]float32
	UpdatedAt time.Time
}

// Store owns the current snapshot. Merges are serialized by a mutex and
// build the replacement off to the side; publication is a single atomic
// pointer swap, so readers always see a complete snapshot with items and
// vectors aligned.
type Store struct {
	mu       sync.Mutex
	capacity int
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

func NewStore(capacity int) *Store {
	s := &Store{capacity: capacity, now: time.Now}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Merge combines the new items with the current snapshot, sorts the
// union newest first, truncates to capacity and publishes the result.
// Vectors of items dropped by truncation are dropped with them.
func (s *Store) Merge(newItems []news.Item) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snapshot.Load()

	union := make([]news.Item, 0, len(newItems)+len(cur.Items))
	union = append(union, newItems...)
	union = append(union, cur.Items...)

	sort.SliceStable(union, func(i, j int) bool {
		return union[i].PublishedAt.After(union[j].PublishedAt)
	})

	if len(union) > s.capacity {
		union = union[:s.capacity]
	}

	vectors := make([][]float32, len(union))
	for i, it := range union {
		vectors[i] = it.Embedding
	}

	next := &Snapshot{
		Items:     union,
		Vectors:   vectors,
		UpdatedAt: s.now(),
	}
	s.snapshot.Store(next)
	return next
}

// Read returns the current snapshot. The returned value must be treated
// as read-only.
func (s *Store) Read() *Snapshot {
	return s.snapshot.Load()
}

// ByRegion groups the current snapshot's items by region label,
// preserving recency order inside each group.
func (s *Store) ByRegion() map[string][]news.Item {
	snap := s.Read()
	grouped := make(map[string][]news.Item)
	for _, it := range snap.Items {
		grouped[it.Region] = append(grouped[it.Region], it)
	}
	return grouped
}

// Keywords returns the sorted union of all cached keyword sets.
func (s *Store) Keywords() []string {
	snap := s.Read()
	set := make(map[string]struct{})
	for _, it := range snap.Items {
		for _, kw := range it.Keywords {
			set[kw] = struct{}{}
		}
	}
	keywords := make([]string, 0, len(set))
	for kw := range set {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}
