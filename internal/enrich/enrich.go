// Package enrich turns accepted drafts into finished items by attaching
// a summary, a keyword set and an embedding vector.
package enrich

import (
	"context"
	"sync"
	"time"

	"newspulse/internal/embedding"
	"newspulse/internal/logger"
	"newspulse/internal/metrics"
	"newspulse/internal/news"
)

// Summarizer produces a short summary of at most n sentences.
type Summarizer interface {
	Summarize(ctx context.Context, text string, sentences int) (string, error)
}

// KeywordExtractor pulls a keyword set out of free text.
type KeywordExtractor interface {
	ExtractKeywords(text string) ([]string, error)
}

// BodyLoader fills in article text for drafts whose feed entry had none.
type BodyLoader interface {
	ArticleText(ctx context.Context, url string) (string, error)
}

type Enricher struct {
	summarizer  Summarizer
	keywords    KeywordExtractor
	embedder    embedding.Client
	bodyLoader  BodyLoader // optional
	concurrency int
	sentences   int
	itemTimeout time.Duration
}

func New(summarizer Summarizer, keywords KeywordExtractor, embedder embedding.Client, concurrency, sentences int, itemTimeout time.Duration) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{
		summarizer:  summarizer,
		keywords:    keywords,
		embedder:    embedder,
		concurrency: concurrency,
		sentences:   sentences,
		itemTimeout: itemTimeout,
	}
}

// WithBodyLoader enables article scraping for drafts with an empty body.
func (e *Enricher) WithBodyLoader(l BodyLoader) *Enricher {
	e.bodyLoader = l
	return e
}

// EnrichAll enriches every draft with a bounded worker pool and returns
// the finished items in draft order. Enrichment never rejects an item:
// a failed summarize, keyword or embed call just leaves that field at
// its zero value. Each item is processed under a deadline so one hung
// collaborator cannot stall the whole refresh cycle.
func (e *Enricher) EnrichAll(ctx context.Context, drafts []news.Draft) []news.Item {
	items := make([]news.Item, len(drafts))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.concurrency)

	for i, d := range drafts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, d news.Draft) {
			defer wg.Done()
			defer func() { <-sem }()

			itemCtx := ctx
			if e.itemTimeout > 0 {
				var cancel context.CancelFunc
				itemCtx, cancel = context.WithTimeout(ctx, e.itemTimeout)
				defer cancel()
			}
			items[i] = e.enrichOne(itemCtx, d)
		}(i, d)
	}
	wg.Wait()

	return items
}

func (e *Enricher) enrichOne(ctx context.Context, d news.Draft) news.Item {
	if d.Body == "" && e.bodyLoader != nil {
		body, err := e.bodyLoader.ArticleText(ctx, d.Link)
		if err != nil {
			logger.Debug("article text unavailable", "link", d.Link, "error", err)
		} else {
			d.Body = body
		}
	}

	item := news.Item{
		Region:       d.Region,
		Source:       d.Source,
		Title:        d.Title,
		Link:         d.Link,
		PublishedAt:  d.PublishedAt,
		ThumbnailURL: d.ThumbnailURL,
	}

	summary, err := e.summarizer.Summarize(ctx, d.Body, e.sentences)
	if err != nil {
		logger.Warn("summarize failed", "link", d.Link, "error", err)
		metrics.Global.IncrementEnrichmentFailures()
		summary = ""
	}
	item.Summary = summary

	keywords, err := e.keywords.ExtractKeywords(d.KeywordText())
	if err != nil {
		logger.Warn("keyword extraction failed", "link", d.Link, "error", err)
		metrics.Global.IncrementEnrichmentFailures()
		keywords = nil
	}
	item.Keywords = keywords

	vectors, err := e.embedder.GetEmbeddings(ctx, []string{item.EmbeddingText()})
	if err != nil || len(vectors) == 0 {
		logger.Warn("embedding failed", "link", d.Link, "error", err)
		metrics.Global.IncrementEnrichmentFailures()
	} else {
		item.Embedding = vectors[0]
	}

	return item
}
