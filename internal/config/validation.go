package config

import (
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

const minRebuildSchedule = time.Second

// normalize rewrites enum-like strings into their canonical form. Unknown values
// are errors rather than silently defaulted.
func (c *Config) normalize() error {
	level, err := logLevelNormalizer.Parse(string(c.Logging.Level))
	if err != nil {
		return err
	}
	format, err := logFormatNormalizer.Parse(string(c.Logging.Format))
	if err != nil {
		return err
	}
	c.Logging.Level = level
	c.Logging.Format = format
	return nil
}

// Validate checks the configuration for values the build cannot work with.
func (c *Config) Validate() error {
	required := []struct{ field, value string }{
		{"content_dir", c.ContentDir},
		{"output_dir", c.OutputDir},
		{"template", c.Template},
	}
	for _, r := range required {
		if r.value == "" {
			return invalid(r.field, "must not be empty", r.value)
		}
	}

	out := filepath.Clean(c.OutputDir)
	if out == filepath.Clean(c.ContentDir) {
		return invalid("output_dir", "must differ from content_dir", c.OutputDir)
	}
	if c.StaticDir != "" && out == filepath.Clean(c.StaticDir) {
		return invalid("output_dir", "must differ from static_dir", c.OutputDir)
	}
	if out == "." || out == string(filepath.Separator) {
		return invalid("output_dir", "refusing to use the working or root directory", c.OutputDir)
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return invalid("serve.port", "must be between 1 and 65535", c.Serve.Port)
	}
	if c.Serve.Debounce < 0 {
		return invalid("serve.debounce", "must not be negative", c.Serve.Debounce.String())
	}
	if c.Serve.RebuildSchedule != 0 && c.Serve.RebuildSchedule < minRebuildSchedule {
		return invalid("serve.rebuild_schedule", "must be zero or at least 1s", c.Serve.RebuildSchedule.String())
	}
	if c.Events.NATSURL != "" && c.Events.Subject == "" {
		return invalid("events.subject", "required when events.nats_url is set", c.Events.Subject)
	}
	return nil
}

func invalid(field, reason string, value any) error {
	return ferrors.ConfigError(field+" "+reason).
		WithContext("field", field).
		WithContext("value", value).
		UserAction().
		Build()
}
