package geogate

import "unicode/utf8"

// MinArticleTextLength is the minimum plain-text length (in runes) for an
// article to be considered usable.
const MinArticleTextLength = 50

// CleanedArticle is the strict, validated result of boilerplate removal.
// Title, Content, and TextContent are always non-empty and TextContent is
// at least MinArticleTextLength runes long; anything less is rejected at
// the extraction boundary and never reaches the IR builder. A
// CleanedArticle is produced once per fetch, owned by a single pipeline
// invocation, and never mutated afterward.
type CleanedArticle struct {
	Title         string
	Content       string // cleaned HTML
	TextContent   string // plain text
	Length        int    // length of TextContent
	Excerpt       string
	Byline        string
	Dir           string // text direction, e.g. "ltr"
	SiteName      string
	Lang          string
	PublishedTime string // RFC 3339, empty when unknown
}

// Validate returns EUNPROCESSABLE if the article is missing required
// fields or its text is too short to be useful.
func (a *CleanedArticle) Validate() error {
	if a.Title == "" {
		return Errorf(EUNPROCESSABLE, "content insufficient: no title")
	}
	if a.Content == "" {
		return Errorf(EUNPROCESSABLE, "content insufficient: no article body")
	}
	if utf8.RuneCountInString(a.TextContent) < MinArticleTextLength {
		return Errorf(EUNPROCESSABLE, "content insufficient: article text shorter than %d characters", MinArticleTextLength)
	}
	return nil
}

// Extractor extracts the main article from raw HTML, removing boilerplate
// (nav, footer, sidebar, ads). Implementations wrap an extraction engine
// whose output is nullable field by field; that nullable boundary never
// leaks past Extract, which returns either a valid CleanedArticle or an
// EUNPROCESSABLE error.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL and returns the
	// cleaned article. Pages with no usable article body yield an
	// EUNPROCESSABLE error, never a partially valid article.
	Extract(html string, pageURL string) (*CleanedArticle, error)
}
