// Package sitefs copies static assets into the output tree.
package sitefs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Clean removes dir and everything below it. A missing dir is not an error.
func Clean(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fsError(err, "failed to clean directory", dir)
	}
	slog.Info("Cleaned directory", logfields.Path(dir))
	return nil
}

// CopyTree recursively copies src into dst, keeping file modes, and returns the
// number of files copied. src must be an existing directory; dst is created
// as needed and existing files are overwritten.
func CopyTree(ctx context.Context, src, dst string) (int, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ferrors.WrapError(err, ferrors.CategoryNotFound, "source directory does not exist").
				WithContext("path", src).
				UserAction().
				Build()
		}
		return 0, fsError(err, "failed to stat source directory", src)
	}
	if !info.IsDir() {
		return 0, ferrors.FileSystemError("source is not a directory").
			WithContext("path", src).
			UserAction().
			Build()
	}

	copied := 0
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fsError(walkErr, "failed to walk source directory", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fsError(err, "failed to resolve relative path", path)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			dirInfo, err := d.Info()
			if err != nil {
				return fsError(err, "failed to stat directory", path)
			}
			if err := os.MkdirAll(target, dirInfo.Mode().Perm()|0o700); err != nil {
				return fsError(err, "failed to create directory", target)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			slog.Debug("Skipping non-regular file", logfields.Path(path))
			return nil
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		copied++
		slog.Debug("Copied file", logfields.Source(path), logfields.Destination(target))
		return nil
	})
	if err != nil {
		return copied, err
	}

	slog.Info("Copied directory", logfields.Source(src), logfields.Destination(dst), logfields.Count(copied))
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fsError(err, "failed to open file", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fsError(err, "failed to stat file", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fsError(err, "failed to create file", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fsError(err, "failed to copy file", dst)
	}
	if err := out.Close(); err != nil {
		return fsError(err, "failed to close file", dst)
	}
	// OpenFile only applies the mode on creation.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fsError(err, "failed to set file mode", dst)
	}
	return nil
}

func fsError(err error, message, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, message).
		WithContext("path", path).
		Build()
}
