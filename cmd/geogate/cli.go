package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/geogate/geogate"
	"github.com/geogate/geogate/pipeline"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Pipeline   *pipeline.Pipeline
	Classifier geogate.Classifier
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Fetch    FetchCmd    `cmd:"" help:"Fetch a URL and print its GEO document"`
	Inspect  InspectCmd  `cmd:"" help:"Fetch a URL and print its IR, GEO HTML, or markdown"`
	Classify ClassifyCmd `cmd:"" help:"Classify request signals as AI or human"`
	Serve    ServeCmd    `cmd:"" help:"Serve the GEO pipeline over HTTP"`

	Extractor string `default:"readability" enum:"readability,trafilatura" help:"Article extraction backend"`
	Strict    bool   `help:"Only trust conclusive AI signals"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// InspectCmd is the "inspect" subcommand.
type InspectCmd struct {
	URL    string `arg:"" help:"Page URL"`
	Format string `default:"ir" enum:"ir,geo,markdown,all" help:"Output format"`
}

// ClassifyCmd is the "classify" subcommand.
type ClassifyCmd struct {
	UserAgent string            `short:"u" help:"User-Agent value to classify"`
	Accept    string            `help:"Accept header value"`
	Header    map[string]string `short:"H" help:"Additional header (name=value, repeatable)"`
	Query     map[string]string `short:"q" help:"Query parameter (name=value, repeatable)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"GEOGATE_ADDR" help:"Listen address"`
}
