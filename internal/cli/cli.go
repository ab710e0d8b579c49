package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/config"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/httputil"
	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/project"
	"github.com/matzehuels/folio/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for cache prefixes and display.
const appName = "folio"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	noCache    bool

	// newSource builds the GitHub source; tests swap it for a local server.
	newSource func(token string, c *httputil.Cache) source
}

// source is what commands need from GitHub: the project source plus
// single-repository lookup for explain.
type source interface {
	project.Source
	Repo(ctx context.Context, owner, name string, refresh bool) (*github.Repo, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		newSource: func(token string, c *httputil.Cache) source {
			return github.NewClient(token, c)
		},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Settings
// =============================================================================

// loadConfig reads the config file and applies the environment. Commands
// then override fields from their own flags before resolving.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := c.configPath
	required := path != ""
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if c.noCache {
		cfg.Cache.Disabled = true
	}
	loggerFromContext(cmd.Context()).Debug("loaded config", "path", path)
	return cfg, nil
}

// requireUser fails when neither an argument nor the config names a user.
func requireUser(s *config.Settings) error {
	if s.User == "" {
		return ferrors.New(ferrors.ErrCodeInvalidInput,
			"no GitHub user given; pass one as argument or set user in %s", config.DefaultPath())
	}
	return nil
}

// =============================================================================
// Backends
// =============================================================================

// backend bundles the cache, GitHub source and runner a command works with.
type backend struct {
	cache  cache.Cache
	source source
	runner *project.Runner
}

func (b *backend) Close() {
	_ = b.cache.Close()
}

// open builds the backend described by s.
func (c *CLI) open(ctx context.Context, s *config.Settings) (*backend, error) {
	cc, err := c.openCache(ctx, s)
	if err != nil {
		return nil, err
	}
	src := c.newSource(s.Token, httputil.NewCache(cc, s.CacheTTL))
	runner := project.NewRunner(src, cc, nil, c.Logger)
	runner.TTL = s.CacheTTL
	return &backend{cache: cc, source: src, runner: runner}, nil
}

func (c *CLI) openCache(ctx context.Context, s *config.Settings) (cache.Cache, error) {
	switch s.CacheBackend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, s.RedisURL, appName+":")
		if err != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	fc, err := cache.NewFileCache(s.CacheDir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without cache", "dir", s.CacheDir, "error", err)
		return cache.NewNullCache(), nil
	}
	c.Logger.Debug("using file cache", "dir", fc.Dir())
	return fc, nil
}

// openStore opens the snapshot store described by s.
func (c *CLI) openStore(ctx context.Context, s *config.Settings) (store.Store, error) {
	if s.StoreBackend != config.StoreMongo {
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, s.MongoURI, s.Database)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "open snapshot store")
	}
	return st, nil
}
