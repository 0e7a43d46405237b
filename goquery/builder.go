// Package goquery implements the IR builder on top of goquery DOM
// queries. It parses a cleaned article's HTML and derives the normalized
// intermediate representation: headings, paragraphs, images, lists,
// videos, entity classification, keywords, and reading time.
package goquery

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/geogate/geogate"
	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

// minParagraphLength is the minimum trimmed length (in runes) for a
// paragraph to be kept.
const minParagraphLength = 20

// embedHosts identifies iframe sources treated as video embeds.
var embedHosts = []string{
	"youtube.com",
	"youtube-nocookie.com",
	"youtu.be",
	"vimeo.com",
}

// Ensure Builder implements geogate.Builder at compile time.
var _ geogate.Builder = (*Builder)(nil)

// Builder derives an IR from a cleaned article. Sub-extractions are
// individually fault-tolerant: a malformed element in one category is
// absorbed and logged, never escalated, so partial results remain
// usable.
type Builder struct {
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report absorbed sub-extraction
// failures. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a new Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses the article content and assembles the IR. Only a total
// inability to parse the content escalates; individual category failures
// yield partial results.
func (b *Builder) Build(article *geogate.CleanedArticle, pageURL string) (*geogate.IR, error) {
	if article == nil {
		return nil, geogate.Errorf(geogate.EINVALID, "nil article")
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, geogate.Errorf(geogate.EINVALID, "invalid page URL %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, geogate.WrapErrorf(err, geogate.EINTERNAL, "parse article content: %v", err)
	}

	content := geogate.PageContent{
		Headings:   b.extractHeadings(doc),
		Paragraphs: b.extractParagraphs(doc),
		Images:     b.extractImages(doc, base),
		Lists:      b.extractLists(doc),
		Videos:     b.extractVideos(doc),
	}

	charCount := utf8.RuneCountInString(article.TextContent)
	semantic := geogate.Semantic{
		MainEntityType: classifyEntity(doc, article),
		Keywords:       extractKeywords(article.TextContent),
		ReadingTime:    readingTime(charCount),
		WordCount:      charCount,
	}

	excerpt := article.Excerpt
	if excerpt == "" {
		excerpt = deriveExcerpt(article.TextContent)
	}

	lang := article.Lang
	if lang == "" {
		lang = "en"
	}

	return &geogate.IR{
		Metadata: geogate.Metadata{
			URL:         pageURL,
			Title:       article.Title,
			Author:      article.Byline,
			PublishDate: article.PublishedTime,
			Excerpt:     excerpt,
			SiteName:    article.SiteName,
			Lang:        lang,
		},
		Content:  content,
		Semantic: semantic,
		Raw: &geogate.RawContent{
			TextLength: charCount,
			HTMLLength: len(article.Content),
			Digest:     fmt.Sprintf("%016x", xxhash.Sum64String(article.Content)),
		},
	}, nil
}

// capture runs a sub-extraction and absorbs panics so one malformed
// category cannot abort the others. Failures are logged and the category
// keeps whatever it produced before the failure.
func (b *Builder) capture(category string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("sub-extraction failed",
				"category", category,
				"panic", r,
			)
		}
	}()
	fn()
}

// extractHeadings returns every h1-h6 with non-empty text in document
// order. Levels outside [1,6] are dropped.
func (b *Builder) extractHeadings(doc *goquery.Document) []geogate.Heading {
	var headings []geogate.Heading
	b.capture("headings", func() {
		doc.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return
			}
			level, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(sel), "h"))
			if err != nil || level < 1 || level > 6 {
				return
			}
			id, _ := sel.Attr("id")
			headings = append(headings, geogate.Heading{
				Level: level,
				Text:  text,
				ID:    id,
			})
		})
	})
	return headings
}

// extractParagraphs returns every <p> whose trimmed text is at least
// minParagraphLength runes, in document order.
func (b *Builder) extractParagraphs(doc *goquery.Document) []string {
	var paragraphs []string
	b.capture("paragraphs", func() {
		doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if utf8.RuneCountInString(text) < minParagraphLength {
				return
			}
			paragraphs = append(paragraphs, text)
		})
	})
	return paragraphs
}

// extractImages returns every <img> with a resolvable absolute source.
// src is preferred over data-src; protocol-relative and root-relative
// sources are normalized against the page origin, and anything not
// eventually absolute http(s) is dropped. Captions come from the nearest
// ancestor figure's figcaption.
func (b *Builder) extractImages(doc *goquery.Document, base *url.URL) []geogate.Image {
	var images []geogate.Image
	b.capture("images", func() {
		doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
			src := strings.TrimSpace(sel.AttrOr("src", ""))
			if src == "" {
				src = strings.TrimSpace(sel.AttrOr("data-src", ""))
			}
			src = resolveImageSrc(src, base)
			if src == "" {
				return
			}

			img := geogate.Image{
				Src: src,
				Alt: strings.TrimSpace(sel.AttrOr("alt", "")),
			}
			if caption := strings.TrimSpace(sel.Closest("figure").Find("figcaption").First().Text()); caption != "" {
				img.Caption = caption
			}
			if w, err := strconv.Atoi(sel.AttrOr("width", "")); err == nil && w > 0 {
				img.Width = w
			}
			if h, err := strconv.Atoi(sel.AttrOr("height", "")); err == nil && h > 0 {
				img.Height = h
			}
			images = append(images, img)
		})
	})
	return images
}

// resolveImageSrc normalizes an image source to an absolute http(s) URL:
// protocol-relative gets https, root-relative resolves against the page
// origin, and anything else non-absolute is rejected.
func resolveImageSrc(src string, base *url.URL) string {
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return src
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return base.Scheme + "://" + base.Host + src
	default:
		return ""
	}
}

// extractLists returns every top-level <ul>/<ol> (lists nested inside
// another list belong to their parent) with the trimmed text of its
// direct <li> children. Lists with zero surviving items are dropped.
func (b *Builder) extractLists(doc *goquery.Document) []geogate.List {
	var lists []geogate.List
	b.capture("lists", func() {
		doc.Find("ul,ol").Each(func(_ int, sel *goquery.Selection) {
			if sel.ParentsFiltered("ul,ol").Length() > 0 {
				return
			}

			var items []string
			sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if text := strings.TrimSpace(li.Text()); text != "" {
					items = append(items, text)
				}
			})
			if len(items) == 0 {
				return
			}

			lists = append(lists, geogate.List{
				Ordered: goquery.NodeName(sel) == "ol",
				Items:   items,
			})
		})
	})
	return lists
}

// extractVideos returns native <video> elements (their src or first
// <source> src, plus poster) and <iframe> elements whose src references
// a known embed host.
func (b *Builder) extractVideos(doc *goquery.Document) []geogate.Video {
	var videos []geogate.Video
	b.capture("videos", func() {
		doc.Find("video").Each(func(_ int, sel *goquery.Selection) {
			src := strings.TrimSpace(sel.AttrOr("src", ""))
			if src == "" {
				src = strings.TrimSpace(sel.Find("source").First().AttrOr("src", ""))
			}
			if src == "" {
				return
			}
			videos = append(videos, geogate.Video{
				Src:    src,
				Poster: strings.TrimSpace(sel.AttrOr("poster", "")),
			})
		})

		doc.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
			src := strings.TrimSpace(sel.AttrOr("src", ""))
			if src == "" || !isEmbedSrc(src) {
				return
			}
			videos = append(videos, geogate.Video{
				Src:   src,
				Embed: true,
			})
		})
	})
	return videos
}

// isEmbedSrc reports whether an iframe source references a known video
// embed host.
func isEmbedSrc(src string) bool {
	src = strings.ToLower(src)
	for _, host := range embedHosts {
		if strings.Contains(src, host) {
			return true
		}
	}
	return false
}
