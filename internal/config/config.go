package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DefaultPath is the configuration file used when --config is not given.
const DefaultPath = "sitegen.yaml"

// Config represents the site generator configuration.
type Config struct {
	ContentDir string        `yaml:"content_dir"`
	StaticDir  string        `yaml:"static_dir"`
	OutputDir  string        `yaml:"output_dir"`
	Template   string        `yaml:"template"`
	Clean      bool          `yaml:"clean"`  // remove output_dir before each build
	Drafts     bool          `yaml:"drafts"` // render pages marked draft: true
	Cache      CacheConfig   `yaml:"cache"`
	Links      LinksConfig   `yaml:"links"`
	Serve      ServeConfig   `yaml:"serve"`
	Logging    LoggingConfig `yaml:"logging"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Events     EventsConfig  `yaml:"events"`
}

// CacheConfig controls the incremental build cache. An empty Path disables it.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// LinksConfig controls the post-build link check.
type LinksConfig struct {
	Check bool `yaml:"check"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Port            int           `yaml:"port"`
	Debounce        time.Duration `yaml:"debounce"`
	RebuildSchedule time.Duration `yaml:"rebuild_schedule,omitempty"` // zero disables periodic rebuilds
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// EventsConfig configures build event publishing. An empty NATSURL disables it.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
}

// Load reads, expands and validates the configuration at path.
//
// .env and .env.local next to the working directory are loaded first so that
// ${VAR} references in the YAML can use them.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				UserAction().
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read configuration file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(strings.NewReader(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults, normalizes and validates it.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").
			UserAction().
			Build()
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsNotFound reports whether err came from a missing configuration file.
func IsNotFound(err error) bool {
	return ferrors.HasCategory(err, ferrors.CategoryNotFound)
}

// ResolvePaths makes relative directory and file settings relative to base,
// normally the directory holding the configuration file.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{&c.ContentDir, &c.StaticDir, &c.OutputDir, &c.Template, &c.Cache.Path} {
		if *p == "" || filepath.IsAbs(*p) || *p == ":memory:" {
			continue
		}
		*p = filepath.Join(base, *p)
	}
}
