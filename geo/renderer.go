// Package geo renders an IR into a machine-oriented HTML document with an
// embedded schema.org JSON-LD entity, the GEO (Generative Engine
// Optimization) variant of a page.
package geo

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/geogate/geogate"
)

// paragraphsPerHeading is the fixed section-grouping heuristic: each
// heading takes up to 3 trailing paragraphs. The IR does not preserve a
// true heading/paragraph association; leftover paragraphs are appended
// flat after the last heading.
const paragraphsPerHeading = 3

// Ensure Renderer implements geogate.Renderer at compile time.
var _ geogate.Renderer = (*Renderer)(nil)

// Renderer serializes an IR into GEO HTML. Render is a pure function:
// no I/O, no clock, no randomness; identical IRs render to byte-identical
// documents.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the full GEO document for an IR.
func (r *Renderer) Render(ir *geogate.IR) string {
	var b strings.Builder

	title := esc(ir.Metadata.Title)
	desc := esc(ir.Metadata.Excerpt)

	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html lang=\"%s\">\n", esc(ir.Metadata.Lang))
	b.WriteString("<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", desc)
	fmt.Fprintf(&b, "<meta property=\"og:title\" content=\"%s\">\n", title)
	fmt.Fprintf(&b, "<meta property=\"og:description\" content=\"%s\">\n", desc)
	fmt.Fprintf(&b, "<meta property=\"og:url\" content=\"%s\">\n", esc(ir.Metadata.URL))
	b.WriteString("<meta property=\"og:type\" content=\"article\">\n")
	if ir.Metadata.SiteName != "" {
		fmt.Fprintf(&b, "<meta property=\"og:site_name\" content=\"%s\">\n", esc(ir.Metadata.SiteName))
	}
	b.WriteString(styleBlock)
	r.writeJSONLD(&b, ir)
	b.WriteString("</head>\n")

	b.WriteString("<body>\n")
	r.writeHeader(&b, ir)
	r.writeMain(&b, ir)
	r.writeImages(&b, ir.Content.Images)
	r.writeLists(&b, ir.Content.Lists)
	r.writeVideos(&b, ir.Content.Videos)
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

// styleBlock is the minimal inline styling; no external stylesheet, no
// scripts besides the JSON-LD block.
const styleBlock = `<style>
body{max-width:46rem;margin:0 auto;padding:1rem;font-family:system-ui,sans-serif;line-height:1.6}
figure{margin:1rem 0}
figcaption{font-size:.875rem;color:#555}
img,video,iframe{max-width:100%}
</style>
`

// jsonLD mirrors the schema.org entity emitted in the document head.
// Struct marshaling (never a map) keeps field order stable so rendering
// stays deterministic.
type jsonLD struct {
	Context       string        `json:"@context"`
	Type          string        `json:"@type"`
	Headline      string        `json:"headline"`
	Description   string        `json:"description"`
	URL           string        `json:"url"`
	InLanguage    string        `json:"inLanguage"`
	Author        *person       `json:"author,omitempty"`
	DatePublished string        `json:"datePublished,omitempty"`
	Publisher     *organization `json:"publisher,omitempty"`
	Image         *imageObject  `json:"image,omitempty"`
	Keywords      string        `json:"keywords,omitempty"`
	WordCount     int           `json:"wordCount,omitempty"`
	Offers        *offers       `json:"offers,omitempty"`
}

type person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type imageObject struct {
	Type   string `json:"@type"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type offers struct {
	Type         string `json:"@type"`
	Availability string `json:"availability"`
}

func (r *Renderer) writeJSONLD(b *strings.Builder, ir *geogate.IR) {
	entity := jsonLD{
		Context:       "https://schema.org",
		Type:          string(ir.Semantic.MainEntityType),
		Headline:      ir.Metadata.Title,
		Description:   ir.Metadata.Excerpt,
		URL:           ir.Metadata.URL,
		InLanguage:    ir.Metadata.Lang,
		DatePublished: ir.Metadata.PublishDate,
		Keywords:      strings.Join(ir.Semantic.Keywords, ","),
		WordCount:     ir.Semantic.WordCount,
	}
	if ir.Metadata.Author != "" {
		entity.Author = &person{Type: "Person", Name: ir.Metadata.Author}
	}
	if ir.Metadata.SiteName != "" {
		entity.Publisher = &organization{Type: "Organization", Name: ir.Metadata.SiteName}
	}
	if len(ir.Content.Images) > 0 {
		first := ir.Content.Images[0]
		entity.Image = &imageObject{
			Type:   "ImageObject",
			URL:    first.Src,
			Width:  first.Width,
			Height: first.Height,
		}
	}
	if ir.Semantic.MainEntityType == geogate.EntityProduct {
		// Availability is a placeholder: the IR does not capture live
		// stock state.
		entity.Offers = &offers{Type: "Offer", Availability: "https://schema.org/InStock"}
	}

	// json.MarshalIndent escapes <, >, and & so the payload is safe
	// inside a script element.
	payload, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		// Marshaling a plain struct cannot fail at runtime; treat it as
		// a programmer error.
		panic(fmt.Sprintf("geo: marshal JSON-LD: %v", err))
	}

	b.WriteString("<script type=\"application/ld+json\">\n")
	b.Write(payload)
	b.WriteString("\n</script>\n")
}

func (r *Renderer) writeHeader(b *strings.Builder, ir *geogate.IR) {
	b.WriteString("<header>\n")
	fmt.Fprintf(b, "<h1 itemprop=\"headline\">%s</h1>\n", esc(ir.Metadata.Title))
	if ir.Metadata.Author != "" {
		fmt.Fprintf(b, "<p class=\"byline\" itemprop=\"author\">%s</p>\n", esc(ir.Metadata.Author))
	}
	if ir.Metadata.PublishDate != "" {
		fmt.Fprintf(b, "<time itemprop=\"datePublished\" datetime=\"%s\">%s</time>\n",
			esc(ir.Metadata.PublishDate), esc(ir.Metadata.PublishDate))
	}
	fmt.Fprintf(b, "<p class=\"excerpt\" itemprop=\"description\">%s</p>\n", esc(ir.Metadata.Excerpt))
	b.WriteString("</header>\n")
}

// writeMain interleaves headings with up to paragraphsPerHeading trailing
// paragraphs each, then appends unconsumed paragraphs flat.
func (r *Renderer) writeMain(b *strings.Builder, ir *geogate.IR) {
	b.WriteString("<main itemprop=\"articleBody\">\n")

	paragraphs := ir.Content.Paragraphs
	next := 0
	for _, h := range ir.Content.Headings {
		idAttr := ""
		if h.ID != "" {
			idAttr = fmt.Sprintf(" id=\"%s\"", esc(h.ID))
		}
		fmt.Fprintf(b, "<h%d%s>%s</h%d>\n", h.Level, idAttr, esc(h.Text), h.Level)

		for n := 0; n < paragraphsPerHeading && next < len(paragraphs); n++ {
			fmt.Fprintf(b, "<p>%s</p>\n", esc(paragraphs[next]))
			next++
		}
	}
	for ; next < len(paragraphs); next++ {
		fmt.Fprintf(b, "<p>%s</p>\n", esc(paragraphs[next]))
	}

	b.WriteString("</main>\n")
}

func (r *Renderer) writeImages(b *strings.Builder, images []geogate.Image) {
	if len(images) == 0 {
		return
	}
	b.WriteString("<section class=\"images\">\n")
	for _, img := range images {
		b.WriteString("<figure itemprop=\"image\" itemscope itemtype=\"https://schema.org/ImageObject\">\n")
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\" itemprop=\"url\"", esc(img.Src), esc(img.Alt))
		if img.Width > 0 {
			fmt.Fprintf(b, " width=\"%d\"", img.Width)
		}
		if img.Height > 0 {
			fmt.Fprintf(b, " height=\"%d\"", img.Height)
		}
		b.WriteString(">\n")
		if img.Caption != "" {
			fmt.Fprintf(b, "<figcaption itemprop=\"caption\">%s</figcaption>\n", esc(img.Caption))
		}
		b.WriteString("</figure>\n")
	}
	b.WriteString("</section>\n")
}

func (r *Renderer) writeLists(b *strings.Builder, lists []geogate.List) {
	if len(lists) == 0 {
		return
	}
	b.WriteString("<section class=\"lists\">\n")
	for _, list := range lists {
		tag := "ul"
		if list.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(b, "<%s>\n", tag)
		for _, item := range list.Items {
			fmt.Fprintf(b, "<li>%s</li>\n", esc(item))
		}
		fmt.Fprintf(b, "</%s>\n", tag)
	}
	b.WriteString("</section>\n")
}

func (r *Renderer) writeVideos(b *strings.Builder, videos []geogate.Video) {
	if len(videos) == 0 {
		return
	}
	b.WriteString("<section class=\"videos\">\n")
	for _, v := range videos {
		if v.Embed {
			fmt.Fprintf(b, "<iframe src=\"%s\" loading=\"lazy\" allowfullscreen></iframe>\n", esc(v.Src))
			continue
		}
		fmt.Fprintf(b, "<video controls src=\"%s\"", esc(v.Src))
		if v.Poster != "" {
			fmt.Fprintf(b, " poster=\"%s\"", esc(v.Poster))
		}
		b.WriteString("></video>\n")
	}
	b.WriteString("</section>\n")
}

// RenderHuman produces the human-facing explanatory document served to
// non-AI requesters. Humans never receive the GEO variant.
func (r *Renderer) RenderHuman(pageURL string) string {
	var b strings.Builder
	escaped := esc(pageURL)

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Machine-optimized page available</title>\n")
	b.WriteString(styleBlock)
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>This page has a machine-optimized variant</h1>\n")
	fmt.Fprintf(&b, "<p>The page at <a href=\"%s\">%s</a> is available in a semantically densified form for AI crawlers and agents.</p>\n", escaped, escaped)
	b.WriteString("<p>Automated clients can request it by sending an AI crawler user agent, the <code>X-AI-Client</code> header, or the <code>?format=geo</code> query parameter.</p>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

// esc escapes user-derived text for HTML interpolation. Escaping covers
// the five significant characters: & < > " '. This is a mandatory
// injection-safety invariant of the renderer.
func esc(s string) string {
	return html.EscapeString(s)
}
