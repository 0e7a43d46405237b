// Package geogate converts arbitrary web pages into machine-oriented,
// semantically densified documents for AI crawlers and agents (GEO:
// Generative Engine Optimization), while human visitors keep receiving a
// human-facing document. The pipeline acquires a page, extracts a clean
// article from noisy markup, builds a normalized intermediate
// representation (IR) of its semantic structure, and re-synthesizes that
// IR into structured HTML with embedded JSON-LD.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., readability/, goquery/, http/) or
// their domain concern when they have none (e.g., geo/, detect/, cache/).
package geogate
