// Package app wires the pipeline together and exposes the query surface
// consumed by the HTTP layer.
package app

import (
	"context"
	"fmt"
	"time"

	"newspulse/internal/cache"
	"newspulse/internal/config"
	"newspulse/internal/dedup"
	"newspulse/internal/embedding"
	"newspulse/internal/enrich"
	"newspulse/internal/feed"
	"newspulse/internal/gemini"
	"newspulse/internal/logger"
	"newspulse/internal/news"
	"newspulse/internal/notify"
	"newspulse/internal/rank"
	"newspulse/internal/ratelimit"
	"newspulse/internal/refresh"
	"newspulse/internal/scrape"
	"newspulse/internal/sources"
)

type App struct {
	cfg      *config.Config
	store    *cache.Store
	embedder embedding.Client
	orch     *refresh.Orchestrator
	gemini   *gemini.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	srcs, err := sources.Load(cfg.SourcesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	logger.Info("sources loaded", "count", len(srcs), "path", cfg.SourcesConfigPath)

	store := cache.NewStore(cfg.CacheCapacity)
	seen := dedup.NewSeenSet(2 * cfg.TTL)
	fetcher := feed.NewFetcher(cfg.SourceTimeout, cfg.FetchConcurrency, cfg.TopKPerSource)
	embedder := embedding.NewAllMinilmL6V2(cfg.EmbedServiceURL, cfg.EmbedDimension)

	a := &App{cfg: cfg, store: store, embedder: embedder}

	var summarizer enrich.Summarizer = enrich.LeadSummarizer{}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		a.gemini = client
		summarizer = &budgetedSummarizer{
			primary:  client,
			fallback: enrich.LeadSummarizer{},
			budget:   ratelimit.NewBudget(cfg.MaxGeminiRequests),
		}
		logger.Info("gemini summarizer enabled", "daily_budget", cfg.MaxGeminiRequests)
	}

	enricher := enrich.New(summarizer, enrich.NewSimpleKeywordExtractor(), embedder,
		cfg.EnrichConcurrency, cfg.SummarySentences, cfg.EnrichItemTimeout).
		WithBodyLoader(scrape.NewExtractor(15 * time.Second))

	notifiers := notify.Multi{notify.LogNotifier{}}
	if cfg.TelegramToken != "" {
		notifiers = append(notifiers, notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID))
	}

	a.orch = refresh.NewOrchestrator(fetcher, enricher, store, seen, notifiers, srcs, cfg.TTL)
	return a, nil
}

// Refresh runs one cycle synchronously. Returns false when a cycle was
// already in flight and the trigger was dropped.
func (a *App) Refresh(ctx context.Context) bool {
	return a.orch.Run(ctx)
}

// TriggerRefresh starts a cycle in the background.
func (a *App) TriggerRefresh() {
	go a.orch.Run(context.Background())
}

// Snapshot returns the cached items grouped by region. With a region
// filter, only that group is present in the result.
func (a *App) Snapshot(region string) (map[string][]news.Item, time.Time) {
	snap := a.store.Read()
	grouped := a.store.ByRegion()
	if region == "" {
		return grouped, snap.UpdatedAt
	}
	filtered := make(map[string][]news.Item, 1)
	if items, ok := grouped[region]; ok {
		filtered[region] = items
	}
	return filtered, snap.UpdatedAt
}

// Search embeds the query text and ranks the cached items against it.
// k <= 0 falls back to the configured search top-K.
func (a *App) Search(ctx context.Context, query string, k int) ([]news.Item, error) {
	if k <= 0 {
		k = a.cfg.SearchTopK
	}

	vectors, err := a.embedder.GetEmbeddings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return rank.TopK(vectors[0], a.store.Read(), k), nil
}

// Keywords returns the sorted union of all cached keyword sets.
func (a *App) Keywords() []string {
	return a.store.Keywords()
}

func (a *App) Close() {
	if a.gemini != nil {
		a.gemini.Close()
	}
}

// budgetedSummarizer uses the LLM summarizer while the daily budget
// lasts and the lead-sentence summarizer after that. An LLM error also
// falls through to the fallback, so the item keeps a usable summary.
type budgetedSummarizer struct {
	primary  enrich.Summarizer
	fallback enrich.Summarizer
	budget   *ratelimit.Budget
}

func (b *budgetedSummarizer) Summarize(ctx context.Context, text string, sentences int) (string, error) {
	if b.budget.Allow() {
		summary, err := b.primary.Summarize(ctx, text, sentences)
		if err == nil {
			return summary, nil
		}
		logger.Warn("llm summarize failed, using fallback", "error", err)
	}
	return b.fallback.Summarize(ctx, text, sentences)
}
