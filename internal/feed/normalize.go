package feed

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newspulse/internal/news"
	"newspulse/internal/sources"
)

// Normalize converts a raw feed entry into an item draft. It returns
// false when the entry is unusable: no title, no link, or no timestamp
// that can be parsed from either the published or the updated field.
func Normalize(e *gofeed.Item, src sources.Source) (news.Draft, bool) {
	title := strings.TrimSpace(e.Title)
	link := strings.TrimSpace(e.Link)
	if title == "" || link == "" {
		return news.Draft{}, false
	}

	published, ok := resolveTimestamp(e)
	if !ok {
		return news.Draft{}, false
	}

	return news.Draft{
		Region:       src.Region,
		Source:       src.Name,
		Title:        title,
		Link:         link,
		PublishedAt:  published,
		ThumbnailURL: thumbnail(e),
		Body:         bodyText(e),
	}, true
}

// resolveTimestamp tries the published field first, then updated. A
// timestamp without zone information is taken as UTC; everything is
// normalized to UTC before any comparison happens downstream.
func resolveTimestamp(e *gofeed.Item) (time.Time, bool) {
	if e.PublishedParsed != nil {
		return e.PublishedParsed.UTC(), true
	}
	if e.UpdatedParsed != nil {
		return e.UpdatedParsed.UTC(), true
	}

	// gofeed leaves the parsed fields nil for formats its lenient parser
	// did not recognize; a last attempt with the common layouts.
	for _, raw := range []string{e.Published, e.Updated} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// bodyText picks the enrichment text: the summary-like field first,
// then the full content block, then empty.
func bodyText(e *gofeed.Item) string {
	if s := strings.TrimSpace(e.Description); s != "" {
		return s
	}
	if s := strings.TrimSpace(e.Content); s != "" {
		return s
	}
	return ""
}

func thumbnail(e *gofeed.Item) string {
	if e.Image != nil && e.Image.URL != "" {
		return e.Image.URL
	}
	if media, ok := e.Extensions["media"]; ok {
		for _, key := range []string{"thumbnail", "content"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}
	return ""
}
