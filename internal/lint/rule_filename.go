package lint

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilenameRule checks that source names map to clean output URLs. Page
// "Getting Started.md" becomes "Getting Started.html", which has to be linked
// as "Getting%20Started.html".
type FilenameRule struct{}

// Name returns the rule identifier.
func (r *FilenameRule) Name() string {
	return "filename"
}

// AppliesTo returns true for pages and image assets.
func (r *FilenameRule) AppliesTo(filePath string) bool {
	return IsPageFile(filePath) || IsAssetFile(filePath)
}

// Check validates filename conventions. The content is not used.
func (r *FilenameRule) Check(filePath string, _ []byte) ([]Issue, error) {
	filename := filepath.Base(filePath)
	suggested := suggestFilename(filename)
	var issues []Issue

	if hasUppercase(filename) {
		issues = append(issues, Issue{
			FilePath: filePath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "Filename contains uppercase letters",
			Explanation: `Output paths keep the case of the source name. Links written in lowercase
break on case-sensitive file systems and web servers.

Current:   ` + filename + `
Suggested: ` + suggested,
			Fix: "Rename to: " + suggested,
		})
	}

	if strings.Contains(filename, " ") {
		issues = append(issues, Issue{
			FilePath: filePath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "Filename contains spaces",
			Explanation: `Spaces become %20 in URLs and links to the page have to be escaped.

Current:   ` + filename + `
Suggested: ` + suggested,
			Fix: "Rename using hyphens: " + suggested,
		})
	}

	if chars := findSpecialChars(filename); len(chars) > 0 {
		issues = append(issues, Issue{
			FilePath: filePath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "Filename contains special characters: " + strings.Join(chars, ", "),
			Explanation: `Characters outside [a-z0-9-_.] need escaping in links and shells.

Current:   ` + filename + `
Suggested: ` + suggested,
			Fix: "Rename to: " + suggested,
		})
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		issues = append(issues, Issue{
			FilePath: filePath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "Filename has leading or trailing hyphens/underscores",
			Explanation: `Leading or trailing separators produce URLs like /-page.html.

Current:   ` + filename + `
Suggested: ` + suggested,
			Fix: "Rename to remove leading/trailing separators: " + suggested,
		})
	}

	return issues, nil
}

func hasUppercase(filename string) bool {
	for _, r := range filename {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.'
}

// findSpecialChars returns the distinct characters outside [a-z0-9-_.] in
// order of appearance. Uppercase letters and spaces have their own checks.
func findSpecialChars(filename string) []string {
	seen := make(map[rune]bool)
	var chars []string
	for _, r := range filename {
		if isSlugRune(r) || r == ' ' || unicode.IsUpper(r) || seen[r] {
			continue
		}
		seen[r] = true
		chars = append(chars, string(r))
	}
	return chars
}

// suggestFilename folds a name to lowercase ASCII: accents are stripped
// ("Café" becomes "cafe") and every other run of invalid characters becomes
// a single hyphen.
func suggestFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, name); err == nil {
		name = folded
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if isSlugRune(r) && r != '-' {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := strings.Trim(b.String(), "-_.")
	if slug == "" {
		slug = "page"
	}
	return slug + ext
}
