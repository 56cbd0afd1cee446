// Package rank scores cached items against a query vector.
package rank

import (
	"sort"

	"newspulse/internal/cache"
	"newspulse/internal/embedding"
	"newspulse/internal/news"
)

// TopK returns the snapshot's items ranked by cosine similarity to the
// query vector, at most k of them. The sort is stable, so similarity
// ties keep the snapshot's recency order. An empty snapshot yields an
// empty result.
func TopK(query []float32, snap *cache.Snapshot, k int) []news.Item {
	if snap == nil || len(snap.Items) == 0 || k <= 0 {
		return nil
	}

	type scored struct {
		item news.Item
		sim  float32
	}

	ranked := make([]scored, len(snap.Items))
	for i, it := range snap.Items {
		ranked[i] = scored{item: it, sim: embedding.CosineSimilarity(query, snap.Vectors[i])}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sim > ranked[j].sim
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	items := make([]news.Item, k)
	for i := 0; i < k; i++ {
		items[i] = ranked[i].item
	}
	return items
}
