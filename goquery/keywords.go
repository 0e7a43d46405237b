package goquery

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// maxKeywords bounds the keyword list.
	maxKeywords = 10

	// Keyword token length bounds, in runes.
	minTokenLength = 2
	maxTokenLength = 10

	// readingSpeed is the fixed characters-per-minute constant used for
	// the reading-time estimate. Not configurable per call.
	readingSpeed = 200

	// Excerpt derivation bounds: truncate to excerptLimit runes, then cut
	// at a sentence boundary no earlier than excerptMinCut.
	excerptLimit  = 200
	excerptMinCut = 50
)

// nonTokenPattern matches everything except CJK ideographs, ASCII
// letters/digits, and whitespace; matches become token separators.
var nonTokenPattern = regexp.MustCompile(`[^\p{Han}a-zA-Z0-9\s]+`)

// extractKeywords returns the most frequent tokens of length 2-10 runes,
// at most maxKeywords of them, ties broken by first-encountered order.
func extractKeywords(text string) []string {
	cleaned := nonTokenPattern.ReplaceAllString(text, " ")

	type tokenCount struct {
		token string
		count int
	}
	counts := make(map[string]int)
	var order []string

	for _, token := range strings.Fields(cleaned) {
		token = strings.ToLower(token)
		if n := utf8.RuneCountInString(token); n < minTokenLength || n > maxTokenLength {
			continue
		}
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	ranked := make([]tokenCount, 0, len(order))
	for _, token := range order {
		ranked = append(ranked, tokenCount{token: token, count: counts[token]})
	}
	// Stable sort keeps first-encountered order among equal counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})

	limit := maxKeywords
	if len(ranked) < limit {
		limit = len(ranked)
	}
	keywords := make([]string, 0, limit)
	for _, tc := range ranked[:limit] {
		keywords = append(keywords, tc.token)
	}
	return keywords
}

// sentence-terminal punctuation, CJK and Latin.
var sentenceEnders = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'.': true,
	'!': true,
	'?': true,
}

// deriveExcerpt builds an excerpt when the page supplies none: truncate
// the plain text to excerptLimit runes and cut at the last
// sentence-terminal mark past excerptMinCut, keeping the mark; otherwise
// append an ellipsis to the raw truncation.
func deriveExcerpt(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= excerptLimit {
		return string(runes)
	}

	truncated := runes[:excerptLimit]
	for i := len(truncated) - 1; i > excerptMinCut; i-- {
		if sentenceEnders[truncated[i]] {
			return string(truncated[:i+1])
		}
	}
	return string(truncated) + "..."
}

// readingTime estimates reading minutes for a character count, rounding
// up.
func readingTime(charCount int) int {
	if charCount <= 0 {
		return 0
	}
	return (charCount + readingSpeed - 1) / readingSpeed
}
