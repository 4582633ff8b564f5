// Package config loads wdlkit's runtime configuration, adapted from
// the teacher's ServerConfig/DefaultServerConfig pattern and extended
// with WDL toolchain fields: the SQLite cache path for fetched
// sources, plus a default document version, a default AWS region and
// an Optional(Optional(T)) flattening flag, which are loaded but not
// read by any other package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds wdlkit's runtime configuration.
type Config struct {
	Addr      string `yaml:"addr"`       // server listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // trace, debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json

	// DefaultVersion is loaded but not read by the parser: a document
	// with no `version` statement is always parsed as draft-2.
	DefaultVersion string `yaml:"default_version"`

	// SourceCacheDir is the path of the SQLite database that caches
	// fetched sources, keyed by canonical URI; empty disables the cache.
	SourceCacheDir string `yaml:"source_cache_dir"`

	// S3Region is loaded but not read: the s3:// reader takes its region
	// from the ambient AWS configuration.
	S3Region string `yaml:"s3_region"`

	// FlattenOptionalOptional is loaded but not read: Optional(Optional(T))
	// is always flattened to Optional(T), whatever its value.
	FlattenOptionalOptional bool `yaml:"flatten_optional_optional"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:                    ":8080",
		LogLevel:                "info",
		LogFormat:               "text",
		DefaultVersion:          "1.1",
		SourceCacheDir:          "",
		S3Region:                "us-east-1",
		FlattenOptionalOptional: true,
	}
}

// Load reads a YAML config file at path, applying it on top of
// DefaultConfig. A missing file is not an error; Load returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
