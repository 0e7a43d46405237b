// Package readability wraps go-readability as the primary
// geogate.Extractor implementation.
package readability

import (
	"net/url"
	"strings"
	"time"

	"github.com/geogate/geogate"
	readability "github.com/go-shiori/go-readability"
)

// charThreshold is the character count below which a candidate element is
// not considered a valid article body.
const charThreshold = 200

// Ensure Extractor implements geogate.Extractor at compile time.
var _ geogate.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs boilerplate removal and validates the result into a strict
// CleanedArticle. The extraction engine returns nullable fields; this is
// the single conversion point past which no nullable field leaks. Pages
// with no usable article yield EUNPROCESSABLE, never a partially valid
// article.
func (e *Extractor) Extract(rawHTML, pageURL string) (*geogate.CleanedArticle, error) {
	if rawHTML == "" {
		return nil, geogate.Errorf(geogate.EINVALID, "empty HTML input")
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, geogate.Errorf(geogate.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	parser := readability.NewParser()
	parser.CharThresholds = charThreshold

	article, err := parser.Parse(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, geogate.Errorf(geogate.EUNPROCESSABLE, "content insufficient: %v", err)
	}

	cleaned := &geogate.CleanedArticle{
		Title:       strings.TrimSpace(article.Title),
		Content:     article.Content,
		TextContent: strings.TrimSpace(article.TextContent),
		Excerpt:     strings.TrimSpace(article.Excerpt),
		Byline:      strings.TrimSpace(article.Byline),
		SiteName:    article.SiteName,
		Lang:        article.Language,
	}
	cleaned.Length = len(cleaned.TextContent)
	if article.PublishedTime != nil {
		cleaned.PublishedTime = article.PublishedTime.Format(time.RFC3339)
	}

	if err := cleaned.Validate(); err != nil {
		return nil, err
	}

	return cleaned, nil
}
