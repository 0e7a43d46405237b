package geogate

// Renderer serializes an IR into a machine-oriented HTML document with an
// embedded JSON-LD entity. Render is pure: no I/O, no clock, no
// randomness; the same IR always yields byte-identical output. A
// malformed IR is a precondition violation, not a runtime error to
// recover from — callers validate externally supplied IRs first.
type Renderer interface {
	Render(ir *IR) string

	// RenderHuman produces the human-facing explanatory document served
	// to non-AI requesters in place of the machine variant.
	RenderHuman(pageURL string) string
}
