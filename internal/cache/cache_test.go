package cache

import (
	"testing"
	"time"

	"newspulse/internal/news"
)

func item(title, link string, published time.Time, vec []float32) news.Item {
	return news.Item{
		Region:      "EMEA",
		Source:      "test",
		Title:       title,
		Link:        link,
		PublishedAt: published,
		Embedding:   vec,
	}
}

func TestMergeSortsNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(10)

	store.Merge([]news.Item{
		item("old", "u1", now.Add(-3*time.Hour), nil),
		item("new", "u2", now.Add(-1*time.Hour), nil),
		item("mid", "u3", now.Add(-2*time.Hour), nil),
	})

	snap := store.Read()
	got := []string{snap.Items[0].Title, snap.Items[1].Title, snap.Items[2].Title}
	want := []string{"new", "mid", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestMergeRespectsCapacity(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(2)

	store.Merge([]news.Item{
		item("a", "u1", now.Add(-1*time.Hour), nil),
		item("b", "u2", now.Add(-2*time.Hour), nil),
		item("c", "u3", now.Add(-3*time.Hour), nil),
	})

	snap := store.Read()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 items after truncation, got %d", len(snap.Items))
	}
	if snap.Items[0].Title != "a" || snap.Items[1].Title != "b" {
		t.Errorf("truncation kept wrong items: %s, %s", snap.Items[0].Title, snap.Items[1].Title)
	}
	if len(snap.Vectors) != len(snap.Items) {
		t.Errorf("vectors not truncated with items: %d vs %d", len(snap.Vectors), len(snap.Items))
	}
}

func TestMergeKeepsVectorsAligned(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(3)

	store.Merge([]news.Item{
		item("a", "u1", now.Add(-1*time.Hour), []float32{1, 0}),
		item("b", "u2", now.Add(-2*time.Hour), []float32{0, 1}),
	})
	store.Merge([]news.Item{
		item("c", "u3", now.Add(-30*time.Minute), []float32{1, 1}),
	})

	snap := store.Read()
	if len(snap.Items) != len(snap.Vectors) {
		t.Fatalf("items/vectors length mismatch: %d vs %d", len(snap.Items), len(snap.Vectors))
	}
	for i, it := range snap.Items {
		vec := snap.Vectors[i]
		if len(vec) != len(it.Embedding) {
			t.Fatalf("vector %d not aligned with item %q", i, it.Title)
		}
		for j := range vec {
			if vec[j] != it.Embedding[j] {
				t.Fatalf("vector %d differs from item %q embedding", i, it.Title)
			}
		}
	}
}

// Two cycles with capacity 3: the snapshot ends up [C, A, B], newest
// first, without a duplicate of A.
func TestMergeAcrossCycles(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(3)

	store.Merge([]news.Item{
		item("A", "u1", now.Add(-1*time.Hour), nil),
		item("B", "u2", now.Add(-2*time.Hour), nil),
	})
	// Cycle 2: A was filtered as a duplicate upstream, only C arrives.
	store.Merge([]news.Item{
		item("C", "u3", now.Add(-30*time.Minute), nil),
	})

	snap := store.Read()
	if len(snap.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(snap.Items))
	}
	want := []string{"C", "A", "B"}
	for i, w := range want {
		if snap.Items[i].Title != w {
			t.Errorf("position %d: got %q, want %q", i, snap.Items[i].Title, w)
		}
	}
}

func TestReadDuringMergeSeesWholeSnapshot(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(50)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			store.Merge([]news.Item{
				item("t", "u", now.Add(-time.Duration(i)*time.Minute), []float32{float32(i)}),
			})
		}
	}()

	for i := 0; i < 2000; i++ {
		snap := store.Read()
		if len(snap.Items) != len(snap.Vectors) {
			t.Fatalf("reader saw misaligned snapshot: %d items, %d vectors", len(snap.Items), len(snap.Vectors))
		}
	}
	<-done
}

func TestByRegionGroupsAndKeepsOrder(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(10)

	a := item("a", "u1", now.Add(-1*time.Hour), nil)
	a.Region = "APJ"
	b := item("b", "u2", now.Add(-2*time.Hour), nil)
	b.Region = "EMEA"
	c := item("c", "u3", now.Add(-3*time.Hour), nil)
	c.Region = "APJ"
	store.Merge([]news.Item{a, b, c})

	grouped := store.ByRegion()
	if len(grouped["APJ"]) != 2 || len(grouped["EMEA"]) != 1 {
		t.Fatalf("unexpected grouping: %v", grouped)
	}
	if grouped["APJ"][0].Title != "a" || grouped["APJ"][1].Title != "c" {
		t.Errorf("region group lost recency order")
	}
}

func TestKeywordsSortedUnion(t *testing.T) {
	now := time.Now().UTC()
	store := NewStore(10)

	a := item("a", "u1", now, nil)
	a.Keywords = []string{"trade", "asia"}
	b := item("b", "u2", now, nil)
	b.Keywords = []string{"asia", "election"}
	store.Merge([]news.Item{a, b})

	got := store.Keywords()
	want := []string{"asia", "election", "trade"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
