// Package pipeline orchestrates the fetch, extract, build, and render
// stages behind the external entry points.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/geogate/geogate"
	"github.com/geogate/geogate/cache"
)

// Pipeline wires the stages together. Every dependency is injected;
// there are no package-level singletons.
type Pipeline struct {
	Fetcher    geogate.Fetcher
	Extractor  geogate.Extractor
	Builder    geogate.Builder
	Renderer   geogate.Renderer
	Classifier geogate.Classifier
	Converter  geogate.Converter

	// IRCache memoizes URL -> IR. HTMLCache optionally memoizes the raw
	// fetched HTML; nil disables it.
	IRCache   *cache.Cache[*geogate.IR]
	HTMLCache *cache.Cache[string]

	Logger *slog.Logger
}

// ResponseMeta describes the outcome of Handle for the transport layer
// to map into response headers.
type ResponseMeta struct {
	Optimized bool
	SourceURL string
	Service   geogate.AIService
	ETag      string
	Detection geogate.DetectionResult
}

// Inspection is the bundle returned by Inspect: everything a tooling
// caller needs to understand what the pipeline produced for a URL.
type Inspection struct {
	IR       *geogate.IR `json:"ir"`
	GeoHTML  string      `json:"geoHtml"`
	Cleaned  string      `json:"cleanedHtml"`
	Markdown string      `json:"markdown,omitempty"`
}

// Process resolves a URL to its IR, computing it on cache miss. The
// whole fetch/extract/build chain runs at most once per key across
// concurrent callers.
func (p *Pipeline) Process(ctx context.Context, pageURL string) (*geogate.IR, error) {
	if err := validatePageURL(pageURL); err != nil {
		return nil, err
	}
	if p.IRCache == nil {
		return p.compute(ctx, pageURL)
	}
	return p.IRCache.GetOrCompute(ctx, pageURL, func(ctx context.Context) (*geogate.IR, error) {
		return p.compute(ctx, pageURL)
	})
}

// compute runs the uncached fetch, extract, and build chain.
func (p *Pipeline) compute(ctx context.Context, pageURL string) (*geogate.IR, error) {
	logger := p.logger().With("request_id", uuid.NewString(), "url", pageURL)
	begin := time.Now()

	html, err := p.fetchHTML(ctx, pageURL)
	if err != nil {
		logger.Warn("fetch failed", "err", err)
		return nil, err
	}

	article, err := p.Extractor.Extract(html, pageURL)
	if err != nil {
		logger.Warn("extraction failed", "err", err)
		return nil, err
	}

	ir, err := p.Builder.Build(article, pageURL)
	if err != nil {
		logger.Warn("build failed", "err", err)
		return nil, err
	}

	logger.Info("page processed",
		"entity", ir.Semantic.MainEntityType,
		"paragraphs", len(ir.Content.Paragraphs),
		"duration", time.Since(begin),
	)
	return ir, nil
}

// fetchHTML fetches through the HTML cache when one is configured.
func (p *Pipeline) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	if p.HTMLCache == nil {
		return p.Fetcher.Fetch(ctx, pageURL)
	}
	return p.HTMLCache.GetOrCompute(ctx, pageURL, func(ctx context.Context) (string, error) {
		return p.Fetcher.Fetch(ctx, pageURL)
	})
}

// Handle is the primary entry: classify the requester, then serve
// either the GEO document or the human-facing explanatory document.
// Humans never receive the GEO variant, and no half-rendered document
// is ever returned on failure.
func (p *Pipeline) Handle(ctx context.Context, pageURL string, sig geogate.RequestSignals) (string, *ResponseMeta, error) {
	detection := p.Classifier.Classify(sig)
	meta := &ResponseMeta{SourceURL: pageURL, Detection: detection}

	if !detection.IsAI {
		return p.Renderer.RenderHuman(pageURL), meta, nil
	}

	ir, err := p.Process(ctx, pageURL)
	if err != nil {
		return "", nil, err
	}

	doc := p.Renderer.Render(ir)
	meta.Optimized = true
	meta.ETag = fmt.Sprintf("%q", fmt.Sprintf("%016x", xxhash.Sum64String(doc)))
	if service, ok := p.Classifier.ServiceOf(sig); ok {
		meta.Service = service
	}
	return doc, meta, nil
}

// Inspect is the secondary entry: resolve a URL without requester
// classification and return the IR alongside its renditions.
func (p *Pipeline) Inspect(ctx context.Context, pageURL string) (*Inspection, error) {
	if err := validatePageURL(pageURL); err != nil {
		return nil, err
	}

	html, err := p.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	article, err := p.Extractor.Extract(html, pageURL)
	if err != nil {
		return nil, err
	}
	ir, err := p.Builder.Build(article, pageURL)
	if err != nil {
		return nil, err
	}

	inspection := &Inspection{
		IR:      ir,
		GeoHTML: p.Renderer.Render(ir),
		Cleaned: article.Content,
	}
	if p.Converter != nil {
		markdown, err := p.Converter.Convert(article.Content)
		if err != nil {
			// Markdown is a convenience rendition; its failure does not
			// fail the inspection.
			p.logger().Warn("markdown conversion failed", "url", pageURL, "err", err)
		} else {
			inspection.Markdown = markdown
		}
	}
	return inspection, nil
}

// RenderIR renders a previously computed IR, validating it first.
func (p *Pipeline) RenderIR(ir *geogate.IR) (string, error) {
	if ir == nil {
		return "", geogate.Errorf(geogate.EINVALID, "IR required")
	}
	if err := ir.Validate(); err != nil {
		return "", err
	}
	return p.Renderer.Render(ir), nil
}

// CacheStats reports per-cache statistics, keyed by cache name.
func (p *Pipeline) CacheStats() map[string]geogate.CacheStats {
	stats := make(map[string]geogate.CacheStats)
	if p.IRCache != nil {
		stats["ir"] = p.IRCache.Stats()
	}
	if p.HTMLCache != nil {
		stats["html"] = p.HTMLCache.Stats()
	}
	return stats
}

// ClearCaches drops every cached entry and resets counters.
func (p *Pipeline) ClearCaches() {
	if p.IRCache != nil {
		p.IRCache.Clear()
	}
	if p.HTMLCache != nil {
		p.HTMLCache.Clear()
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// validatePageURL rejects malformed URLs before any I/O happens.
func validatePageURL(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return geogate.Errorf(geogate.EINVALID, "invalid page URL %q", pageURL)
	}
	return nil
}
