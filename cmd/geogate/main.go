package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/geogate/geogate"
	"github.com/geogate/geogate/cache"
	"github.com/geogate/geogate/detect"
	"github.com/geogate/geogate/geo"
	"github.com/geogate/geogate/goquery"
	geohttp "github.com/geogate/geogate/http"
	"github.com/geogate/geogate/htmltomarkdown"
	"github.com/geogate/geogate/pipeline"
	"github.com/geogate/geogate/readability"
	geoslog "github.com/geogate/geogate/slog"
	"github.com/geogate/geogate/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Pipeline wired during Run; exposed for end-to-end testing.
	Pipeline *pipeline.Pipeline

	fetcher geogate.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Pipeline != nil {
		if m.Pipeline.IRCache != nil {
			m.Pipeline.IRCache.Close()
		}
		if m.Pipeline.HTMLCache != nil {
			m.Pipeline.HTMLCache.Close()
		}
	}
	if m.fetcher != nil {
		return m.fetcher.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("geogate"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'geogate --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(cli.Verbose)}))
	deps.Logger = logger

	classifier := detect.NewClassifier(classifierOptions(cli.Strict)...)
	deps.Classifier = geoslog.NewLoggingClassifier(classifier, logger)

	// The classify command needs no network pipeline.
	if cmd != "classify" {
		extractor, err := newExtractor(cli.Extractor)
		if err != nil {
			return err
		}

		m.fetcher = geoslog.NewLoggingFetcher(
			geohttp.NewFetcher(geohttp.WithHostLimiter(geohttp.NewHostLimiter(1.0))),
			logger,
		)

		m.Pipeline = &pipeline.Pipeline{
			Fetcher:    m.fetcher,
			Extractor:  extractor,
			Builder:    goquery.NewBuilder(goquery.WithLogger(logger)),
			Renderer:   geo.NewRenderer(),
			Classifier: deps.Classifier,
			Converter:  htmltomarkdown.NewConverter(),
			IRCache:    cache.New[*geogate.IR](),
			HTMLCache:  cache.New[string](),
			Logger:     logger,
		}
		defer m.Close()

		deps.Pipeline = m.Pipeline
	}

	return kongCtx.Run(deps)
}

// newExtractor selects the article extraction backend.
func newExtractor(name string) (geogate.Extractor, error) {
	switch name {
	case "readability":
		return readability.NewExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want readability or trafilatura)", name)
	}
}

func classifierOptions(strict bool) []detect.Option {
	if strict {
		return []detect.Option{detect.WithStrictMode()}
	}
	return nil
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
