// Package refresh drives one fetch-normalize-filter-dedup-enrich-merge
// cycle end to end.
package refresh

import (
	"context"
	"sync/atomic"
	"time"

	"newspulse/internal/cache"
	"newspulse/internal/dedup"
	"newspulse/internal/feed"
	"newspulse/internal/logger"
	"newspulse/internal/metrics"
	"newspulse/internal/news"
	"newspulse/internal/notify"
	"newspulse/internal/sources"
)

// Fetcher retrieves raw entries from every configured source.
type Fetcher interface {
	FetchAll(ctx context.Context, srcs []sources.Source) []feed.RawEntry
}

// Enricher turns accepted drafts into finished items.
type Enricher interface {
	EnrichAll(ctx context.Context, drafts []news.Draft) []news.Item
}

type Orchestrator struct {
	fetcher  Fetcher
	enricher Enricher
	store    *cache.Store
	seen     *dedup.SeenSet
	notifier notify.Notifier
	srcs     []sources.Source
	ttl      time.Duration

	running atomic.Bool
	now     func() time.Time
}

func NewOrchestrator(fetcher Fetcher, enricher Enricher, store *cache.Store, seen *dedup.SeenSet, notifier notify.Notifier, srcs []sources.Source, ttl time.Duration) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		enricher: enricher,
		store:    store,
		seen:     seen,
		notifier: notifier,
		srcs:     srcs,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Fresh reports whether an item published at the given time is still
// within the TTL at instant now. The boundary is inclusive; a future
// timestamp (source clock skew) also passes.
func Fresh(published, now time.Time, ttl time.Duration) bool {
	return now.Sub(published) <= ttl
}

// Run executes one refresh cycle. A trigger that arrives while a cycle
// is already in flight is dropped, not queued; Run then returns false.
// No pipeline error is fatal: failed sources and unusable entries just
// contribute nothing.
func (o *Orchestrator) Run(ctx context.Context) bool {
	if !o.running.CompareAndSwap(false, true) {
		logger.Debug("refresh cycle already running, trigger ignored")
		metrics.Global.IncrementCyclesSkipped()
		return false
	}
	defer o.running.Store(false)

	start := o.now()
	nowUTC := start.UTC()

	entries := o.fetcher.FetchAll(ctx, o.srcs)

	var accepted []news.Draft
	for _, entry := range entries {
		metrics.Global.IncrementItemsProcessed()

		draft, ok := feed.Normalize(entry.Item, entry.Source)
		if !ok {
			metrics.Global.IncrementUnparseableDropped()
			continue
		}

		if !Fresh(draft.PublishedAt, nowUTC, o.ttl) {
			metrics.Global.IncrementStaleDropped()
			continue
		}

		if !o.seen.Add(dedup.Fingerprint(draft.Title, draft.Link)) {
			logger.Debug("duplicate dropped", "title", draft.Title, "link", draft.Link)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}

		accepted = append(accepted, draft)
	}

	items := o.enricher.EnrichAll(ctx, accepted)
	snap := o.store.Merge(items)
	pruned := o.seen.Prune()

	duration := o.now().Sub(start)
	metrics.Global.RecordCycle(len(items), duration)
	if len(o.srcs) > 0 && len(entries) == 0 {
		metrics.Global.SetError("no entries fetched from any source")
	}
	logger.Info("refresh cycle done",
		"fetched", len(entries),
		"accepted", len(items),
		"cached", len(snap.Items),
		"seen_pruned", pruned,
		"duration", duration)

	// Fire and forget; a slow or failing consumer must not hold the
	// next cycle back.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := o.notifier.Notify(notifyCtx, notify.Event{AcceptedCount: len(items), CompletedAt: snap.UpdatedAt}); err != nil {
			logger.Warn("cycle notification failed", "error", err)
		}
	}()

	return true
}
