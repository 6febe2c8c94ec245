package lint

import (
	"errors"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// InlineSyntaxRule runs the page body through the converter and reports the
// block that fails, typically an unclosed emphasis or code marker.
type InlineSyntaxRule struct{}

// Name returns the rule identifier.
func (r *InlineSyntaxRule) Name() string {
	return "inline-syntax"
}

// AppliesTo returns true for pages.
func (r *InlineSyntaxRule) AppliesTo(filePath string) bool {
	return IsPageFile(filePath)
}

// Check converts the body and maps a failure back to a file line.
func (r *InlineSyntaxRule) Check(filePath string, content []byte) ([]Issue, error) {
	src, err := parsePage(content)
	if err != nil || strings.TrimSpace(src.body) == "" {
		return nil, nil
	}

	_, err = markdown.ToTree(src.body)
	if err == nil {
		return nil, nil
	}

	issue := Issue{
		FilePath:    filePath,
		Severity:    SeverityError,
		Rule:        r.Name(),
		Message:     "Page cannot be converted",
		Explanation: err.Error(),
	}

	classified, ok := ferrors.AsClassified(err)
	if !ok {
		return []Issue{issue}, nil
	}
	if errors.Is(err, markdown.ErrUnbalancedDelimiter) {
		marker, _ := classified.Context().GetString("delimiter")
		text, _ := classified.Context().GetString("text")
		issue.Message = "Unclosed " + marker + " delimiter"
		issue.Explanation = "Inline markers must come in pairs within one block.\n\nText: " + text
		issue.Fix = "Add the closing " + marker + " or remove the stray one"
	}
	if index, ok := classified.Context().GetInt("block"); ok {
		blocks, splitErr := markdown.SplitBlocks(src.body)
		if splitErr == nil {
			if line := blockLine(src.body, blocks, index); line > 0 {
				issue.Line = src.offset + line
			}
		}
	}
	return []Issue{issue}, nil
}
