// Package scrape extracts article text from a page when the feed entry
// itself carries no usable body.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Extractor struct {
	client *http.Client
}

func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{client: &http.Client{Timeout: timeout}}
}

// ArticleText fetches the page and returns its main text. It tries the
// usual article containers in order and stops once it has a few
// paragraphs.
func (ex *Extractor) ArticleText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := ex.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := extractParagraphs(doc)
	if text == "" {
		return "", fmt.Errorf("no article content found")
	}
	return text, nil
}

var selectors = []string{
	"article p",
	".article-body p",
	".post-content p",
	".entry-content p",
	".content p",
	"main p",
	"p",
}

func extractParagraphs(doc *goquery.Document) string {
	var paragraphs []string

	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 && !isJunkLine(text) {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
		paragraphs = paragraphs[:0]
	}

	// A single long paragraph is still better than nothing.
	if len(paragraphs) == 0 {
		doc.Find("p").Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 80 && !isJunkLine(text) {
				paragraphs = append(paragraphs, text)
			}
		})
	}

	return clean(strings.Join(paragraphs, "\n\n"))
}

var junkIndicators = []string{
	"cookie", "gdpr", "advertisement", "subscribe", "newsletter",
	"sign up", "log in", "read more", "follow us", "share this",
}

func isJunkLine(line string) bool {
	lower := strings.ToLower(line)
	for _, indicator := range junkIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func clean(text string) string {
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	text = strings.TrimSpace(text)

	// Keep whole paragraphs under a rough length cap to bound the
	// summarizer and embedder inputs.
	if len(text) > 1800 {
		paragraphs := strings.Split(text, "\n\n")
		var kept []string
		total := 0
		for _, p := range paragraphs {
			if total+len(p) >= 1600 {
				break
			}
			kept = append(kept, p)
			total += len(p) + 2
		}
		if len(kept) > 0 {
			text = strings.Join(kept, "\n\n")
		} else {
			text = text[:1600]
		}
	}
	return text
}
