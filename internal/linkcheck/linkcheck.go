// Package linkcheck finds links in generated pages that point at files which
// do not exist in the output tree.
package linkcheck

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// BrokenLink is a reference to a missing local file.
type BrokenLink struct {
	Page   string // page containing the link, relative to the root
	Target string // attribute value as written
	Tag    string // "a" or "img"
}

// attrFor maps the checked selectors to the attribute carrying the target.
var attrFor = []struct{ selector, attr string }{
	{"a[href]", "href"},
	{"img[src]", "src"},
}

// CheckTree checks every .html file below root.
func CheckTree(ctx context.Context, root string) ([]BrokenLink, error) {
	var pages []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to walk output directory").
			WithContext("path", root).
			Build()
	}

	var broken []BrokenLink
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return broken, err
		}
		found, err := CheckFile(p, root)
		if err != nil {
			return broken, err
		}
		broken = append(broken, found...)
	}
	return broken, nil
}

// CheckFile checks the links of one page. Relative targets resolve against
// the page directory, absolute ones against root.
func CheckFile(page, root string) ([]BrokenLink, error) {
	f, err := os.Open(page)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to open page").
			WithContext("path", page).
			Build()
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "failed to parse page HTML").
			WithContext("path", page).
			Build()
	}

	rel, err := filepath.Rel(root, page)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "page is outside the output root").
			WithContext("path", page).
			Build()
	}
	rel = filepath.ToSlash(rel)

	var broken []BrokenLink
	for _, sel := range attrFor {
		doc.Find(sel.selector).Each(func(_ int, s *goquery.Selection) {
			target, _ := s.Attr(sel.attr)
			local, ok := localPath(target, path.Dir(rel))
			if !ok || exists(root, local) {
				return
			}
			broken = append(broken, BrokenLink{Page: rel, Target: target, Tag: goquery.NodeName(s)})
		})
	}
	sort.SliceStable(broken, func(i, j int) bool { return broken[i].Target < broken[j].Target })
	return broken, nil
}

// localPath turns target into a slash path relative to the root. ok is false
// for links that do not point into the site: external URLs, mailto, fragments.
func localPath(target, pageDir string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "//") {
		return "", false
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		return "", false
	}
	if strings.HasPrefix(p, "/") {
		return path.Clean(strings.TrimPrefix(p, "/")), true
	}
	return path.Clean(path.Join(pageDir, p)), true
}

// exists accepts a file, or a directory holding index.html.
func exists(root, rel string) bool {
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return true
}
