package enrich

import (
	"context"
	"strings"
)

// LeadSummarizer picks the first full sentences of the text. It is the
// always-available summarizer and the fallback when an LLM one is
// configured but errors out or runs over budget.
type LeadSummarizer struct{}

func (LeadSummarizer) Summarize(_ context.Context, text string, sentences int) (string, error) {
	c := strings.TrimSpace(stripTags(text))
	if c == "" {
		return "", nil
	}
	if sentences < 1 {
		sentences = 1
	}

	var picked []string
	for _, s := range strings.Split(c, ".") {
		s = strings.TrimSpace(s)
		if len(s) < 25 {
			continue
		}
		picked = append(picked, s)
		if len(picked) >= sentences {
			break
		}
	}
	if len(picked) == 0 {
		if len(c) > 160 {
			return c[:160] + "...", nil
		}
		return c, nil
	}
	return strings.Join(picked, ". ") + ".", nil
}

// stripTags drops HTML markup; feed descriptions frequently carry it.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
