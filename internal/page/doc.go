// Package page turns markdown sources into complete HTML pages.
//
// A page is the converted markdown body placed into an HTML template that
// carries the {{ Title }} and {{ Content }} placeholders. The title comes from
// the frontmatter when set, otherwise from the leading "# " heading.
package page
