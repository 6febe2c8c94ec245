package preview

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// watcher follows the site sources: directory trees watched recursively and
// single files watched through their parent directory.
type watcher struct {
	fs     *fsnotify.Watcher
	roots  []string
	files  map[string]bool
	logger *slog.Logger
}

func newWatcher(dirs, files []string, logger *slog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot create file watcher").Build()
	}

	w := &watcher{fs: fsw, files: make(map[string]bool), logger: logger}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot resolve watch path").
				WithContext("path", dir).
				Build()
		}
		w.roots = append(w.roots, abs)
		w.addRecursive(abs)
	}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = fsw.Close()
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot resolve watch path").
				WithContext("path", file).
				Build()
		}
		w.files[abs] = true
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			logger.Warn("Watch add failed", logfields.Path(filepath.Dir(abs)), logfields.Error(err))
		}
	}
	return w, nil
}

func (w *watcher) Events() <-chan fsnotify.Event { return w.fs.Events }

func (w *watcher) Errors() <-chan error { return w.fs.Errors }

func (w *watcher) Close() error { return w.fs.Close() }

// handle reports whether ev should trigger a rebuild. New directories below a
// root are added to the watch list.
func (w *watcher) handle(ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}

	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if w.files[path] {
		return true
	}
	if !w.underRoot(path) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			w.addRecursive(path)
		}
	}
	return true
}

func (w *watcher) underRoot(path string) bool {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden files and editor scratch files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
