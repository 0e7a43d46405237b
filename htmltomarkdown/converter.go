// Package htmltomarkdown renders cleaned article HTML as Markdown, the
// plain-text rendition Inspect returns alongside the GEO document for
// agent tooling.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/geogate/geogate"
)

// Ensure Converter implements geogate.Converter at compile time.
var _ geogate.Converter = (*Converter)(nil)

// blankRunPattern matches runs of three or more newlines, the residue
// left when embeds, scripts, and empty wrappers are dropped during
// conversion.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// Converter renders article HTML as Markdown. The table plugin stays on:
// tabular data is exactly the structured content agent tooling wants to
// keep from an article.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms cleaned article HTML into normalized Markdown:
// blank-line runs collapsed to one separator, edges trimmed, a single
// trailing newline.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", geogate.Errorf(geogate.EINVALID, "empty HTML input")
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", geogate.WrapErrorf(err, geogate.EINTERNAL, "markdown conversion failed")
	}

	return normalize(md), nil
}

// normalize tidies converter output so repeated renditions of the same
// article diff cleanly.
func normalize(md string) string {
	md = blankRunPattern.ReplaceAllString(md, "\n\n")
	md = strings.TrimSpace(md)
	if md == "" {
		return md
	}
	return md + "\n"
}
