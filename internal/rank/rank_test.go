package rank

import (
	"math"
	"testing"
	"time"

	"newspulse/internal/cache"
	"newspulse/internal/embedding"
	"newspulse/internal/news"
)

func buildSnapshot(t *testing.T, items []news.Item) *cache.Snapshot {
	t.Helper()
	store := cache.NewStore(len(items) + 1)
	return store.Merge(items)
}

func item(title string, age time.Duration, vec []float32) news.Item {
	return news.Item{
		Title:       title,
		Link:        "https://example.com/" + title,
		PublishedAt: time.Now().UTC().Add(-age),
		Embedding:   vec,
	}
}

func TestTopKIdenticalVectorRanksFirst(t *testing.T) {
	snap := buildSnapshot(t, []news.Item{
		item("a", 1*time.Hour, []float32{1, 0, 0}),
		item("b", 2*time.Hour, []float32{0, 1, 0}),
		item("c", 3*time.Hour, []float32{0.2, 0.9, 0.1}),
	})

	got := TopK([]float32{0, 1, 0}, snap, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if got[0].Title != "b" {
		t.Errorf("expected exact match first, got %q", got[0].Title)
	}

	sim := embedding.CosineSimilarity([]float32{0, 1, 0}, got[0].Embedding)
	if math.Abs(float64(sim)-1.0) > 1e-6 {
		t.Errorf("expected similarity ~1.0, got %f", sim)
	}
}

func TestTopKTiesKeepRecencyOrder(t *testing.T) {
	// Same vector for all three, so similarity ties; snapshot order
	// (newest first) must be preserved.
	vec := []float32{1, 1, 0}
	snap := buildSnapshot(t, []news.Item{
		item("newest", 1*time.Hour, vec),
		item("middle", 2*time.Hour, vec),
		item("oldest", 3*time.Hour, vec),
	})

	got := TopK([]float32{1, 1, 0}, snap, 3)
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if got[i].Title != w {
			t.Fatalf("tie-break broke order: got %q at %d, want %q", got[i].Title, i, w)
		}
	}
}

func TestTopKZeroVectorRanksLast(t *testing.T) {
	snap := buildSnapshot(t, []news.Item{
		item("broken", 1*time.Hour, nil),
		item("zero", 2*time.Hour, []float32{0, 0, 0}),
		item("ok", 3*time.Hour, []float32{1, 0, 0}),
	})

	got := TopK([]float32{1, 0, 0}, snap, 3)
	if got[0].Title != "ok" {
		t.Errorf("expected embeddable item first, got %q", got[0].Title)
	}
	if got[1].Title != "broken" || got[2].Title != "zero" {
		t.Errorf("zero-magnitude items should sink in snapshot order, got %q then %q", got[1].Title, got[2].Title)
	}
}

func TestTopKLimitsAndEmptySnapshot(t *testing.T) {
	snap := buildSnapshot(t, []news.Item{
		item("a", 1*time.Hour, []float32{1, 0}),
		item("b", 2*time.Hour, []float32{0, 1}),
	})

	if got := TopK([]float32{1, 0}, snap, 1); len(got) != 1 {
		t.Errorf("expected k=1 to cap results, got %d", len(got))
	}
	if got := TopK([]float32{1, 0}, snap, 10); len(got) != 2 {
		t.Errorf("expected all items when k exceeds size, got %d", len(got))
	}

	empty := cache.NewStore(5).Read()
	if got := TopK([]float32{1, 0}, empty, 10); len(got) != 0 {
		t.Errorf("expected empty result for empty snapshot, got %d items", len(got))
	}
	if got := TopK([]float32{1, 0}, nil, 10); got != nil {
		t.Errorf("expected nil for nil snapshot")
	}
}
