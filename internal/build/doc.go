// Package build runs a complete site build: static assets, pages and the
// optional link check, reporting the outcome as a Report.
package build
