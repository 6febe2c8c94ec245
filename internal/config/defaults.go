package config

import "time"

// Default values applied before the YAML is decoded.
const (
	DefaultContentDir = "content"
	DefaultStaticDir  = "static"
	DefaultOutputDir  = "public"
	DefaultTemplate   = "template.html"
	DefaultCachePath  = ".sitegen/cache.db"
	DefaultPort       = 8080
	DefaultDebounce   = 300 * time.Millisecond
	DefaultSubject    = "sitegen.build"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		ContentDir: DefaultContentDir,
		StaticDir:  DefaultStaticDir,
		OutputDir:  DefaultOutputDir,
		Template:   DefaultTemplate,
		Clean:      true,
		Cache:      CacheConfig{Path: DefaultCachePath},
		Serve: ServeConfig{
			Port:     DefaultPort,
			Debounce: DefaultDebounce,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Events: EventsConfig{Subject: DefaultSubject},
	}
}
