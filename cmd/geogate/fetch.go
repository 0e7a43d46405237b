package main

import (
	"fmt"

	"github.com/geogate/geogate"
)

// Run executes the fetch command: resolve the URL through the full
// pipeline and print the GEO document.
func (c *FetchCmd) Run(deps *Dependencies) error {
	ir, err := deps.Pipeline.Process(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geogate.ErrorMessage(err))
		return err
	}

	doc, err := deps.Pipeline.RenderIR(ir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", geogate.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, doc)
	return nil
}
