package main

import (
	"encoding/json"
	"fmt"

	"github.com/geogate/geogate"
)

// Run executes the inspect command.
func (c *InspectCmd) Run(deps *Dependencies) error {
	inspection, err := deps.Pipeline.Inspect(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geogate.ErrorMessage(err))
		return err
	}

	switch c.Format {
	case "geo":
		fmt.Fprintln(deps.Stdout, inspection.GeoHTML)
	case "markdown":
		fmt.Fprintln(deps.Stdout, inspection.Markdown)
	case "ir":
		return printJSON(deps, inspection.IR)
	case "all":
		return printJSON(deps, inspection)
	}
	return nil
}

func printJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
