package enrich

import (
	"regexp"
	"strings"
)

// SimpleKeywordExtractor extracts keywords via stop word removal and
// basic suffix stemming.
type SimpleKeywordExtractor struct {
	stopWords map[string]bool
	maxCount  int
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

func NewSimpleKeywordExtractor() *SimpleKeywordExtractor {
	stopWords := map[string]bool{
		"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
		"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
		"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
		"that": true, "the": true, "to": true, "was": true, "were": true, "will": true,
		"with": true, "would": true, "could": true, "should": true, "may": true,
		"might": true, "can": true, "must": true, "do": true, "does": true,
		"did": true, "have": true, "had": true, "this": true, "these": true,
		"they": true, "them": true, "their": true, "his": true, "her": true,
		"she": true, "we": true, "you": true, "your": true, "our": true,
		"after": true, "over": true, "into": true, "about": true, "says": true,
		"said": true, "new": true, "not": true, "but": true, "who": true,
	}

	return &SimpleKeywordExtractor{
		stopWords: stopWords,
		maxCount:  12,
	}
}

// ExtractKeywords lowercases, strips punctuation, removes stop words and
// stems what remains. The result preserves first-occurrence order and
// contains no duplicates.
func (ske *SimpleKeywordExtractor) ExtractKeywords(text string) ([]string, error) {
	text = strings.ToLower(stripTags(text))
	text = nonWord.ReplaceAllString(text, " ")

	var keywords []string
	seen := make(map[string]bool)

	for _, word := range strings.Fields(text) {
		if len(word) < 3 || ske.stopWords[word] {
			continue
		}

		stemmed := stem(word)
		if seen[stemmed] {
			continue
		}
		seen[stemmed] = true
		keywords = append(keywords, stemmed)

		if len(keywords) >= ske.maxCount {
			break
		}
	}

	return keywords, nil
}

var suffixes = []string{
	"ing", "tion", "sion", "ness", "ment", "able", "ible",
	"ful", "less", "ous", "ive", "ed", "er", "est", "ly", "es", "s",
}

func stem(word string) string {
	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}
