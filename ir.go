package geogate

import "strings"

// IR is the normalized intermediate representation of a page: a fully
// self-contained semantic snapshot, independent of the source markup.
// Renderers never re-touch the source DOM. An IR is created once per
// (URL, fetch) by a Builder, cached by URL, and never mutated after
// creation; it is evicted by TTL or capacity pressure.
type IR struct {
	Metadata Metadata    `json:"metadata"`
	Content  PageContent `json:"content"`
	Semantic Semantic    `json:"semantic"`

	// Raw is diagnostic only and not required for rendering.
	Raw *RawContent `json:"raw,omitempty"`
}

// Metadata describes the page-level metadata of an IR.
type Metadata struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	PublishDate string `json:"publishDate,omitempty"` // RFC 3339
	Excerpt     string `json:"excerpt"`               // always populated; derived when absent upstream
	SiteName    string `json:"siteName,omitempty"`
	Lang        string `json:"lang"`
}

// PageContent holds the structural content of an IR. The ordering of
// Headings and Paragraphs is insertion order from the document and is
// semantically significant: renderers use it to reconstruct section
// grouping.
type PageContent struct {
	Headings   []Heading `json:"headings"`
	Paragraphs []string  `json:"paragraphs"` // each at least 20 runes, a builder invariant
	Images     []Image   `json:"images"`
	Lists      []List    `json:"lists,omitempty"`
	Videos     []Video   `json:"videos,omitempty"`
}

// Heading is a document heading with its level (1-6).
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// Image is a content image. Src is always an absolute http(s) URL;
// builders drop relative or invalid sources rather than passing them
// through.
type Image struct {
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// List is a top-level ordered or unordered list with at least one item.
type List struct {
	Ordered bool     `json:"ordered"`
	Items   []string `json:"items"`
}

// Video is either a native video source or a known embed (YouTube/Vimeo)
// iframe source.
type Video struct {
	Src    string `json:"src"`
	Poster string `json:"poster,omitempty"`
	Embed  bool   `json:"embed"`
}

// EntityType is the closed set of schema.org entity types assigned to a
// page by the builder's classification cascade.
type EntityType string

// Entity types in cascade precedence order.
const (
	EntityProduct     EntityType = "Product"
	EntityNewsArticle EntityType = "NewsArticle"
	EntityBlogPosting EntityType = "BlogPosting"
	EntityArticle     EntityType = "Article"
)

// Semantic holds derived semantic attributes of an IR.
type Semantic struct {
	MainEntityType EntityType `json:"mainEntityType"`
	Keywords       []string   `json:"keywords"`    // at most 10 entries
	ReadingTime    int        `json:"readingTime"` // minutes
	WordCount      int        `json:"wordCount"`
}

// RawContent carries diagnostic information about the source content.
type RawContent struct {
	TextLength int    `json:"textLength"`
	HTMLLength int    `json:"htmlLength"`
	Digest     string `json:"digest"` // xxhash of the cleaned article HTML
}

// Validate checks the structural invariants of an externally supplied IR
// (e.g., a render-from-IR request) before it is rendered. Returns
// EINVALID on the first violation.
func (ir *IR) Validate() error {
	if ir.Metadata.URL == "" {
		return Errorf(EINVALID, "IR metadata URL required")
	}
	if ir.Metadata.Title == "" {
		return Errorf(EINVALID, "IR metadata title required")
	}
	for _, h := range ir.Content.Headings {
		if h.Level < 1 || h.Level > 6 {
			return Errorf(EINVALID, "IR heading level %d out of range [1,6]", h.Level)
		}
	}
	for _, img := range ir.Content.Images {
		if !strings.HasPrefix(img.Src, "http://") && !strings.HasPrefix(img.Src, "https://") {
			return Errorf(EINVALID, "IR image source %q is not absolute", img.Src)
		}
	}
	switch ir.Semantic.MainEntityType {
	case EntityProduct, EntityNewsArticle, EntityBlogPosting, EntityArticle:
	default:
		return Errorf(EINVALID, "IR entity type %q unknown", ir.Semantic.MainEntityType)
	}
	return nil
}

// Builder derives an IR from a cleaned article. Sub-extractions
// (headings, paragraphs, images, lists, videos) are individually
// fault-tolerant: a failure in one category is absorbed and logged, never
// escalated; only a total inability to build minimal metadata fails the
// build.
type Builder interface {
	Build(article *CleanedArticle, pageURL string) (*IR, error)
}
