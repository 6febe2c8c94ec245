package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

const exampleConfig = `# sitegen configuration
content_dir: content
static_dir: static
output_dir: public
template: template.html
clean: true
drafts: false

cache:
  path: .sitegen/cache.db

links:
  check: true

serve:
  port: 8080
  debounce: 300ms
  # rebuild_schedule: 10m

logging:
  level: info
  format: text

metrics:
  enabled: false

events:
  # nats_url: ${NATS_URL}
  subject: sitegen.build
`

// Init writes an example configuration file. An existing file is kept unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			UserAction().
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat configuration file").
			WithContext("path", path).
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create configuration directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", path).
			Build()
	}
	return nil
}
