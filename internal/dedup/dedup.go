// Package dedup tracks content fingerprints across refresh cycles.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Fingerprint returns the dedup key for an item: a digest over the
// verbatim title and link. No normalization is applied, so entries
// differing only in whitespace or tracking parameters count as distinct.
func Fingerprint(title, link string) string {
	h := sha256.New()
	h.Write([]byte(title + link))
	return hex.EncodeToString(h.Sum(nil))
}

// SeenSet remembers which fingerprints have been accepted. Membership
// test and insert are a single atomic step, so two concurrent duplicates
// cannot both be accepted. Entries older than the retention window are
// pruned to keep memory bounded; by then the recency filter rejects the
// item anyway, so eviction cannot resurrect a stale duplicate.
type SeenSet struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	retention time.Duration
	now       func() time.Time
}

func NewSeenSet(retention time.Duration) *SeenSet {
	return &SeenSet{
		seen:      make(map[string]time.Time),
		retention: retention,
		now:       time.Now,
	}
}

// Add records the fingerprint and reports whether it was new. A false
// return means the item is a duplicate and must be rejected.
func (s *SeenSet) Add(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[fp]; dup {
		return false
	}
	s.seen[fp] = s.now()
	return true
}

// Prune drops fingerprints first seen longer than the retention window
// ago. Called once per refresh cycle after the merge.
func (s *SeenSet) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.retention)
	removed := 0
	for fp, seenAt := range s.seen {
		if seenAt.Before(cutoff) {
			delete(s.seen, fp)
			removed++
		}
	}
	return removed
}

func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
