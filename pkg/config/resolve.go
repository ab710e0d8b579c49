package config

import (
	"os"
	"path/filepath"
	"time"

	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/indirect"
	"github.com/matzehuels/folio/pkg/project"
	"github.com/matzehuels/folio/pkg/render"
)

// Backend names.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"

	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Defaults applied by Resolve.
const (
	DefaultAddr          = ":8080"
	DefaultServerTimeout = 30 * time.Second
)

// Settings are the values commands run with, after defaults and derived
// values are filled in.
type Settings struct {
	User        string
	Token       string
	Title       string
	Description string
	Format      string
	Output      string
	Project     project.Options

	CacheBackend string
	CacheDir     string
	CacheTTL     time.Duration
	RedisURL     string

	StoreBackend string
	MongoURI     string
	Database     string

	Addr          string
	ServerTimeout time.Duration
}

type view = indirect.View[string, any]

// Resolve derives Settings from c. Settings depend on each other (the
// title on the user, the format on the output path, the cache backend on
// the Redis URL), so each is defined once in terms of the others.
func Resolve(c Config) (*Settings, error) {
	str := func(key string) func(v *view) (string, error) {
		return func(v *view) (string, error) { return indirect.Get[string](v, key) }
	}
	user, output, redisURL, mongoURI := str("user"), str("output"), str("redisURL"), str("mongoURI")

	r := indirect.New[string, any]().
		Define("title", func(v *view) (any, error) {
			if c.Title != "" {
				return c.Title, nil
			}
			u, err := user(v)
			if err != nil {
				return nil, err
			}
			return render.SiteFor(u).Title, nil
		}).
		Define("description", func(v *view) (any, error) {
			if c.Description != "" {
				return c.Description, nil
			}
			u, err := user(v)
			if err != nil {
				return nil, err
			}
			return render.SiteFor(u).Description, nil
		}).
		Define("user", func(*view) (any, error) {
			if c.User == "" {
				return "", nil
			}
			if err := ferrors.ValidateUsername(c.User); err != nil {
				return nil, err
			}
			return c.User, nil
		}).
		Define("format", func(v *view) (any, error) {
			if c.Format != "" {
				return c.Format, ferrors.ValidateFormat(c.Format, render.Formats)
			}
			out, err := output(v)
			if err != nil {
				return nil, err
			}
			if out == "" || out == "-" {
				return render.FormatJSON, nil
			}
			if f := render.FormatFromExt(filepath.Ext(out)); f != "" {
				return f, nil
			}
			return nil, ferrors.New(ferrors.ErrCodeInvalidFormat,
				"cannot infer format from %q; pass --format", out)
		}).
		Define("output", indirect.Const[string, any](c.Output)).
		Define("project", func(*view) (any, error) {
			if c.LanguageThreshold < 0 || c.LanguageThreshold > 1 {
				return nil, ferrors.New(ferrors.ErrCodeInvalidConfig,
					"language_threshold must be between 0 and 1, got %g", c.LanguageThreshold)
			}
			if c.Concurrency < 0 {
				return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "concurrency must not be negative")
			}
			opts := project.Options{
				ExcludeKeywords:   c.ExcludeKeywords,
				LanguageThreshold: c.LanguageThreshold,
				IncludeForks:      c.IncludeForks,
				ExcludeArchived:   c.ExcludeArchived,
				SkipImages:        c.SkipImages,
				Concurrency:       c.Concurrency,
			}
			opts.SetDefaults()
			opts.Logger = nil
			return opts, nil
		}).
		Define("cacheBackend", func(v *view) (any, error) {
			u, err := redisURL(v)
			switch {
			case err != nil:
				return nil, err
			case c.Cache.Disabled:
				return CacheNone, nil
			case u != "":
				return CacheRedis, nil
			}
			return CacheFile, nil
		}).
		Define("cacheDir", func(*view) (any, error) {
			if c.Cache.Dir != "" {
				return c.Cache.Dir, nil
			}
			return DefaultCacheDir(), nil
		}).
		Define("cacheTTL", func(*view) (any, error) {
			if c.Cache.TTL < 0 {
				return nil, ferrors.New(ferrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
			}
			if c.Cache.TTL == 0 {
				return project.DefaultTTL, nil
			}
			return c.Cache.TTL, nil
		}).
		Define("redisURL", indirect.Const[string, any](c.Cache.RedisURL)).
		Define("storeBackend", func(v *view) (any, error) {
			u, err := mongoURI(v)
			if err != nil || u == "" {
				return StoreMemory, err
			}
			return StoreMongo, nil
		}).
		Define("mongoURI", indirect.Const[string, any](c.Store.MongoURI)).
		Define("addr", func(*view) (any, error) {
			if c.Server.Addr == "" {
				return DefaultAddr, nil
			}
			return c.Server.Addr, nil
		}).
		Define("serverTimeout", func(*view) (any, error) {
			if c.Server.Timeout <= 0 {
				return DefaultServerTimeout, nil
			}
			return c.Server.Timeout, nil
		})

	rec, err := r.Resolve()
	if err != nil {
		return nil, err
	}

	rd := indirect.NewReader(rec)
	s := &Settings{
		User:          indirect.Read[string](rd, "user"),
		Token:         c.Token,
		Title:         indirect.Read[string](rd, "title"),
		Description:   indirect.Read[string](rd, "description"),
		Format:        indirect.Read[string](rd, "format"),
		Output:        indirect.Read[string](rd, "output"),
		Project:       indirect.Read[project.Options](rd, "project"),
		CacheBackend:  indirect.Read[string](rd, "cacheBackend"),
		CacheDir:      indirect.Read[string](rd, "cacheDir"),
		CacheTTL:      indirect.Read[time.Duration](rd, "cacheTTL"),
		RedisURL:      indirect.Read[string](rd, "redisURL"),
		StoreBackend:  indirect.Read[string](rd, "storeBackend"),
		MongoURI:      indirect.Read[string](rd, "mongoURI"),
		Database:      c.Store.Database,
		Addr:          indirect.Read[string](rd, "addr"),
		ServerTimeout: indirect.Read[time.Duration](rd, "serverTimeout"),
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/folio, falling back to the OS
// user cache directory.
func DefaultCacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserCacheDir(); err != nil {
			dir = os.TempDir()
		}
	}
	return filepath.Join(dir, "folio")
}
