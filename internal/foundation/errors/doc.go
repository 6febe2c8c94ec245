// Package errors provides the classified error primitives used across sitegen.
//
// Every failure that reaches the CLI carries a category (markdown, template,
// config, filesystem, ...), a severity and a retry hint, so the command layer
// can pick an exit code and a message without string matching.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryMarkdown, "convert page").
//		WithContext("page", path).
//		Build()
package errors
