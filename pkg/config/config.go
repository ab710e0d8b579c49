// Package config loads folio settings from a TOML file and the environment
// and derives the values commands run with.
//
// Precedence is flags > environment > file > defaults. Commands load the
// file with [Load], apply the environment with [Config.ApplyEnv], override
// fields from flags, then call [Resolve].
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/folio/pkg/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvToken    = "GITHUB_TOKEN"
	EnvRedisURL = "FOLIO_REDIS_URL"
	EnvMongoURI = "FOLIO_MONGO_URI"
)

// Config mirrors the config file.
type Config struct {
	User        string `toml:"user"`
	Token       string `toml:"token"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Format      string `toml:"format"`
	Output      string `toml:"output"`

	ExcludeKeywords   []string `toml:"exclude_keywords"`
	LanguageThreshold float64  `toml:"language_threshold"`
	IncludeForks      bool     `toml:"include_forks"`
	ExcludeArchived   bool     `toml:"exclude_archived"`
	SkipImages        bool     `toml:"skip_images"`
	Concurrency       int      `toml:"concurrency"`

	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig configures response and project list caching.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
}

// StoreConfig configures the snapshot store.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures `folio serve`.
type ServerConfig struct {
	Addr    string        `toml:"addr"`
	Timeout time.Duration `toml:"timeout"`
}

// DefaultPath returns $XDG_CONFIG_HOME/folio/config.toml, falling back to
// the OS user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "folio", "config.toml")
}

// Load reads the config file at path. A missing file yields an empty
// Config unless required is set. Unknown keys are rejected so typos do not
// pass silently.
func Load(path string, required bool) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return &Config{}, nil
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return parse(string(data), path)
}

// Parse decodes config text.
func Parse(text string) (*Config, error) {
	return parse(text, "config")
}

func parse(text, source string) (*Config, error) {
	var c Config
	md, err := toml.Decode(text, &c)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse %s", source)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", source, strings.Join(keys, ", "))
	}
	return &c, nil
}

// ApplyEnv overrides file values with non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvToken); v != "" {
		c.Token = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
}

// Encode returns c as TOML with the token masked.
func (c *Config) Encode() (string, error) {
	masked := *c
	if masked.Token != "" {
		masked.Token = "********"
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(masked); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return sb.String(), nil
}
