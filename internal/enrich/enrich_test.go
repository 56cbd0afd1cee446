package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"newspulse/internal/news"
)

type fixedEmbedder struct {
	vec []float32
}

func (f *fixedEmbedder) GetEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

type failingEmbedder struct{}

func (failingEmbedder) GetEmbeddings(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New("embedding service down")
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(_ context.Context, _ string, _ int) (string, error) {
	return "", errors.New("summarizer down")
}

func draft(title string) news.Draft {
	return news.Draft{
		Region:      "EMEA",
		Source:      "test",
		Title:       title,
		Link:        "https://example.com/" + title,
		PublishedAt: time.Now().UTC(),
		Body:        "First sentence with enough length to survive. Second sentence also long enough to count. Third one.",
	}
}

func TestEnrichAllAttachesEverything(t *testing.T) {
	e := New(LeadSummarizer{}, NewSimpleKeywordExtractor(), &fixedEmbedder{vec: []float32{1, 2, 3}}, 2, 2, time.Minute)

	items := e.EnrichAll(context.Background(), []news.Draft{draft("a")})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	it := items[0]
	if it.Summary == "" {
		t.Error("expected a summary")
	}
	if len(it.Keywords) == 0 {
		t.Error("expected keywords")
	}
	if len(it.Embedding) != 3 {
		t.Errorf("expected the embedder's vector, got %v", it.Embedding)
	}
}

func TestEnrichAllFailuresDoNotRejectItems(t *testing.T) {
	e := New(failingSummarizer{}, NewSimpleKeywordExtractor(), failingEmbedder{}, 2, 2, time.Minute)

	items := e.EnrichAll(context.Background(), []news.Draft{draft("a")})
	if len(items) != 1 {
		t.Fatalf("item should survive enrichment failures, got %d items", len(items))
	}

	it := items[0]
	if it.Summary != "" {
		t.Errorf("expected empty summary on failure, got %q", it.Summary)
	}
	if len(it.Embedding) != 0 {
		t.Errorf("expected no embedding on failure, got %v", it.Embedding)
	}
	if it.Title != "a" || it.Link != "https://example.com/a" {
		t.Error("identity fields must survive enrichment failure")
	}
}

// hangingSummarizer blocks until its context is cancelled, like an LLM
// request to a stalled backend.
type hangingSummarizer struct{}

func (hangingSummarizer) Summarize(ctx context.Context, _ string, _ int) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestEnrichAllBoundsEachItem(t *testing.T) {
	e := New(hangingSummarizer{}, NewSimpleKeywordExtractor(), &fixedEmbedder{vec: []float32{1}}, 2, 2, 100*time.Millisecond)

	done := make(chan []news.Item, 1)
	go func() {
		done <- e.EnrichAll(context.Background(), []news.Draft{draft("a"), draft("b")})
	}()

	select {
	case items := <-done:
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		for _, it := range items {
			if it.Summary != "" {
				t.Errorf("expected empty summary from timed-out summarizer, got %q", it.Summary)
			}
			if it.Title == "" {
				t.Error("identity fields must survive a timed-out summarizer")
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("EnrichAll did not return: hung summarizer was not cut off by the item deadline")
	}
}

func TestEnrichAllPreservesDraftOrder(t *testing.T) {
	e := New(LeadSummarizer{}, NewSimpleKeywordExtractor(), &fixedEmbedder{vec: []float32{1}}, 4, 1, time.Minute)

	var drafts []news.Draft
	for i := 0; i < 20; i++ {
		drafts = append(drafts, draft(fmt.Sprintf("item-%02d", i)))
	}

	items := e.EnrichAll(context.Background(), drafts)
	for i, it := range items {
		if want := fmt.Sprintf("item-%02d", i); it.Title != want {
			t.Fatalf("order broken at %d: got %q, want %q", i, it.Title, want)
		}
	}
}

func TestLeadSummarizer(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		sentences int
		check     func(t *testing.T, got string)
	}{
		{
			name:      "picks the first sentences",
			text:      "The first sentence is here and long enough. The second sentence is also long enough. A third long sentence should not appear.",
			sentences: 2,
			check: func(t *testing.T, got string) {
				if strings.Contains(got, "third") {
					t.Errorf("summary has too many sentences: %q", got)
				}
				if !strings.HasPrefix(got, "The first sentence") {
					t.Errorf("summary should start with the lead: %q", got)
				}
			},
		},
		{
			name:      "empty text gives empty summary",
			text:      "   ",
			sentences: 2,
			check: func(t *testing.T, got string) {
				if got != "" {
					t.Errorf("expected empty, got %q", got)
				}
			},
		},
		{
			name:      "html markup is stripped",
			text:      "<p>Parliament passed the measure after a long debate session.</p><a href=\"x\">Read more</a>",
			sentences: 1,
			check: func(t *testing.T, got string) {
				if strings.ContainsAny(got, "<>") {
					t.Errorf("summary still contains markup: %q", got)
				}
			},
		},
		{
			name:      "short fragment is returned as is",
			text:      "Brief note",
			sentences: 2,
			check: func(t *testing.T, got string) {
				if got != "Brief note" {
					t.Errorf("expected passthrough, got %q", got)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LeadSummarizer{}.Summarize(context.Background(), tc.text, tc.sentences)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, got)
		})
	}
}

func TestSimpleKeywordExtractor(t *testing.T) {
	ske := NewSimpleKeywordExtractor()

	got, err := ske.ExtractKeywords("The parliament passed the budget and the budget was criticized")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(got, " ")
	if strings.Contains(joined, "the") || strings.Contains(joined, "and") {
		t.Errorf("stop words leaked into keywords: %v", got)
	}

	seen := make(map[string]bool)
	for _, kw := range got {
		if seen[kw] {
			t.Errorf("duplicate keyword %q in %v", kw, got)
		}
		seen[kw] = true
	}
	// "passed" and "criticized" stem away their suffixes; "budget"
	// appears once despite two mentions.
	if !seen["budget"] {
		t.Errorf("expected %q in keywords %v", "budget", got)
	}
}
