// Package feed fetches raw entries from the configured sources and
// normalizes them into item drafts.
package feed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"newspulse/internal/logger"
	"newspulse/internal/metrics"
	"newspulse/internal/sources"
)

// RawEntry is one feed entry together with the source it came from.
type RawEntry struct {
	Source sources.Source
	Item   *gofeed.Item
}

type Fetcher struct {
	client        *http.Client
	timeout       time.Duration
	concurrency   int
	topKPerSource int
}

func NewFetcher(timeout time.Duration, concurrency, topKPerSource int) *Fetcher {
	return &Fetcher{
		client:        &http.Client{Timeout: timeout},
		timeout:       timeout,
		concurrency:   concurrency,
		topKPerSource: topKPerSource,
	}
}

// FetchAll downloads and parses all sources with a bounded worker pool.
// One failing source contributes zero entries; the others are unaffected.
// The next refresh cycle is the retry mechanism, so there is none here.
func (f *Fetcher) FetchAll(ctx context.Context, srcs []sources.Source) []RawEntry {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		entries []RawEntry
	)
	sem := make(chan struct{}, f.concurrency)
	successCount := 0

	for _, src := range srcs {
		wg.Add(1)
		sem <- struct{}{}
		go func(src sources.Source) {
			defer wg.Done()
			defer func() { <-sem }()

			items, err := f.fetchOne(ctx, src)
			if err != nil {
				logger.Warn("source unavailable", "source", src.Name, "url", src.URL, "error", err)
				metrics.Global.IncrementSourceFailures()
				return
			}

			mu.Lock()
			for _, it := range items {
				entries = append(entries, RawEntry{Source: src, Item: it})
			}
			successCount++
			mu.Unlock()
			logger.Debug("source fetched", "source", src.Name, "entries", len(items))
		}(src)
	}
	wg.Wait()

	logger.Info("fetch finished", "sources_ok", successCount, "sources_total", len(srcs), "entries", len(entries))
	return entries
}

func (f *Fetcher) fetchOne(ctx context.Context, src sources.Source) ([]*gofeed.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// gofeed's parser keeps per-parse state, so each fetch gets its own.
	parser := gofeed.NewParser()
	parser.Client = f.client

	feed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if f.topKPerSource > 0 && len(items) > f.topKPerSource {
		items = items[:f.topKPerSource]
	}
	return items, nil
}
