// Package trafilatura wraps go-trafilatura as an alternate
// geogate.Extractor implementation, selectable from the CLI.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/geogate/geogate"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements geogate.Extractor at compile time.
var _ geogate.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main article from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs boilerplate removal and validates the result into a strict
// CleanedArticle.
func (e *Extractor) Extract(rawHTML, pageURL string) (*geogate.CleanedArticle, error) {
	if rawHTML == "" {
		return nil, geogate.Errorf(geogate.EINVALID, "empty HTML input")
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, geogate.Errorf(geogate.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		OriginalURL:    u,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, geogate.Errorf(geogate.EUNPROCESSABLE, "content insufficient: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, geogate.WrapErrorf(err, geogate.EINTERNAL, "render extracted content: %v", err)
		}
	}

	cleaned := &geogate.CleanedArticle{
		Title:       strings.TrimSpace(result.Metadata.Title),
		Content:     contentHTML,
		TextContent: strings.TrimSpace(result.ContentText),
		Excerpt:     strings.TrimSpace(result.Metadata.Description),
		Byline:      strings.TrimSpace(result.Metadata.Author),
		SiteName:    result.Metadata.Sitename,
		Lang:        result.Metadata.Language,
	}
	cleaned.Length = len(cleaned.TextContent)
	if !result.Metadata.Date.IsZero() {
		cleaned.PublishedTime = result.Metadata.Date.Format(time.RFC3339)
	}

	if err := cleaned.Validate(); err != nil {
		return nil, err
	}

	return cleaned, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
