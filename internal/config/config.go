// Package config loads the earmark CLI configuration.
//
// The file is TOML. ${VAR} references are expanded from the environment
// before decoding, so secrets and paths can stay out of the file:
//
//	[log]
//	level = "debug"
//
//	[fetch]
//	timeout = "10s"
//	user_agent = "earmark (${USER})"
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/drone/envsubst"

	"github.com/FocuswithJustin/earmark/core/cache"
	"github.com/FocuswithJustin/earmark/core/errors"
	"github.com/FocuswithJustin/earmark/core/fetch"
	"github.com/FocuswithJustin/earmark/internal/logging"
)

// Config holds the CLI configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Fetch  FetchConfig  `toml:"fetch"`
	Output OutputConfig `toml:"output"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn or error
	Format string `toml:"format"` // text or json
}

// FetchConfig configures URI docuverse retrieval.
type FetchConfig struct {
	Timeout   Duration `toml:"timeout"`    // Per-request timeout
	CacheSize int      `toml:"cache_size"` // Cached documents (0 = unlimited)
	CacheTTL  Duration `toml:"cache_ttl"`  // Cache entry lifetime (0 = no expiration)
	UserAgent string   `toml:"user_agent"` // User-Agent header
	AllowFile bool     `toml:"allow_file"` // Whether file:// URIs may be read
	MaxBytes  int64    `toml:"max_bytes"`  // Body size limit (<= 0 = unlimited)
}

// OutputConfig holds defaults for commands that write documents.
type OutputConfig struct {
	Format   string `toml:"format"`   // Registry name used when the extension is unknown
	Compress string `toml:"compress"` // "", "xz" or "gz" suffix appended to outputs
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	fo := fetch.DefaultOptions()
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Fetch: FetchConfig{
			Timeout:   Duration{fo.Timeout},
			CacheSize: cache.DefaultConfig().MaxSize,
			UserAgent: fo.UserAgent,
			AllowFile: fo.AllowFile,
			MaxBytes:  fo.MaxBytes,
		},
		Output: OutputConfig{Format: "ntriples"},
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return Parse(path, string(data))
}

// Parse decodes TOML text over the defaults. name is used in errors.
func Parse(name, text string) (*Config, error) {
	expanded, err := envsubst.EvalEnv(text)
	if err != nil {
		return nil, &errors.ParseError{Format: "TOML", Path: name, Message: "expanding variables", Err: err}
	}

	cfg := Default()
	meta, err := toml.Decode(expanded, cfg)
	if err != nil {
		return nil, &errors.ParseError{Format: "TOML", Path: name, Message: err.Error(), Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.NewParse("TOML", name, "unknown keys: "+strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return cfg, nil
}

// Validate checks the values that have a fixed vocabulary or range.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.NewValidation("log.level", err.Error())
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return errors.NewValidation("log.format", err.Error())
	}
	if c.Fetch.Timeout.Duration < 0 {
		return errors.NewValidation("fetch.timeout", "must not be negative")
	}
	if c.Fetch.CacheTTL.Duration < 0 {
		return errors.NewValidation("fetch.cache_ttl", "must not be negative")
	}
	if c.Fetch.CacheSize < 0 {
		return errors.NewValidation("fetch.cache_size", "must not be negative")
	}
	switch c.Output.Compress {
	case "", "xz", "gz":
	default:
		return errors.NewValidation("output.compress", fmt.Sprintf("unknown compression %q", c.Output.Compress))
	}
	return nil
}

// FetchOptions returns the fetcher options described by c.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:   c.Fetch.Timeout.Duration,
		UserAgent: c.Fetch.UserAgent,
		AllowFile: c.Fetch.AllowFile,
		MaxBytes:  c.Fetch.MaxBytes,
	}
}

// CacheConfig returns the content cache configuration described by c.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{MaxSize: c.Fetch.CacheSize, TTL: c.Fetch.CacheTTL.Duration}
}

// Fetcher builds the caching fetcher described by c.
func (c *Config) Fetcher() *fetch.CachingFetcher {
	return fetch.New(c.FetchOptions(), c.CacheConfig())
}

// InitLogging installs the configured logger. Validate has already
// checked the level and format.
func (c *Config) InitLogging() {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	logging.InitLogger(level, format)
}
