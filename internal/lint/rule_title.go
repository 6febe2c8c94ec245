package lint

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/page"
)

// TitleRule reports pages the generator cannot take a title from: the page
// has neither a frontmatter title nor a "# Title" first line.
type TitleRule struct{}

// Name returns the rule identifier.
func (r *TitleRule) Name() string {
	return "title-heading"
}

// AppliesTo returns true for pages.
func (r *TitleRule) AppliesTo(filePath string) bool {
	return IsPageFile(filePath)
}

// Check validates the page header. Broken frontmatter is reported here
// and skipped by the other content rules.
func (r *TitleRule) Check(filePath string, content []byte) ([]Issue, error) {
	src, err := parsePage(content)
	if err != nil {
		return []Issue{{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Invalid frontmatter",
			Explanation: err.Error(),
			Fix:         "Close the header with a --- line and check its YAML",
			Line:        1,
		}}, nil
	}

	if strings.TrimSpace(src.body) == "" {
		return []Issue{{
			FilePath: filePath,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "Page has no content",
			Fix:      "Add a \"# Title\" heading and some text, or delete the page",
		}}, nil
	}

	if src.meta.Title != "" {
		return nil, nil
	}
	if _, err := page.ExtractTitle(src.body); err != nil {
		first, _, _ := strings.Cut(src.body, "\n")
		return []Issue{{
			FilePath: filePath,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "Page does not start with a title heading",
			Explanation: `The page title is taken from a level 1 heading on the first line.

Found: ` + strings.TrimSpace(first),
			Fix:  "Start the page with \"# Your Title\" or set title in the frontmatter",
			Line: src.offset + 1,
		}}, nil
	}
	return nil, nil
}
