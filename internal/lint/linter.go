package lint

import (
	"io/fs"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Linter checks site sources before they are built.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a linter with the default rule set.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}

	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&FilenameRule{},
			&TitleRule{},
			&InlineSyntaxRule{},
			&UnsupportedConstructRule{},
		},
	}
}

// Rules returns the active rules in evaluation order.
func (l *Linter) Rules() []Rule {
	return append([]Rule(nil), l.rules...)
}

// LintPath lints all pages and assets below path, or path itself when it is a file.
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, statError(err, path)
	}

	result := &Result{Issues: []Issue{}}
	if !info.IsDir() {
		result.FilesTotal = 1
		return result, l.lintFile(path, result)
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files
		if p != path && d.Name()[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || (!IsPageFile(p) && !IsAssetFile(p)) {
			return nil
		}

		result.FilesTotal++
		return l.lintFile(p, result)
	})
	return result, err
}

// LintFiles lints an explicit list of files. Missing files and files that are
// neither pages nor assets are skipped.
func (l *Linter) LintFiles(files []string) (*Result, error) {
	result := &Result{Issues: []Issue{}}

	for _, file := range files {
		if !IsPageFile(file) && !IsAssetFile(file) {
			continue
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}

		result.FilesTotal++
		if err := l.lintFile(file, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// lintFile applies all applicable rules to a single file.
func (l *Linter) lintFile(path string, result *Result) error {
	var content []byte
	if IsPageFile(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return statError(err, path)
		}
		content = data
	}

	for _, rule := range l.rules {
		if !rule.AppliesTo(path) {
			continue
		}

		issues, err := rule.Check(path, content)
		if err != nil {
			return err
		}

		for _, issue := range issues {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
	return nil
}

func statError(err error, path string) error {
	category := ferrors.CategoryFileSystem
	if os.IsNotExist(err) {
		category = ferrors.CategoryNotFound
	}
	return ferrors.WrapError(err, category, "cannot read lint target").
		WithContext("path", path).
		Build()
}
