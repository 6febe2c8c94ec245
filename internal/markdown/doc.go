// Package markdown converts a markdown document into a markup tree.
//
// The pipeline runs strictly forward:
//
//	document → blocks → (block kind, inline spans) → *markup.Container
//
// Supported syntax is deliberately small: ATX headings, fenced code, single-level
// block quotes and lists, and the inline styles strong (**), emphasis (* and _),
// code (`), links and images. Conversion is all-or-nothing: a malformed block fails
// the whole document and no partial tree is returned.
//
// All functions are pure and hold no package state, so concurrent calls are safe.
package markdown
