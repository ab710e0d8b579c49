package project

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/observability"
)

// DefaultTTL is how long a built project list stays cached.
const DefaultTTL = time.Hour

// Runner wraps pipeline execution with caching of whole project lists.
// Both the CLI and the HTTP server use it.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Source Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// Result is the outcome of a Runner execution.
type Result struct {
	Projects []Project
	CacheHit bool
	Duration time.Duration
}

// NewRunner creates a runner reading from src.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(src Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: src,
		Cache:  c,
		Keyer:  keyer,
		TTL:    DefaultTTL,
		Logger: logger,
	}
}

// Execute returns the projects of user, from cache unless opts.Refresh is
// set. Freshly built lists are written back to the cache.
func (r *Runner) Execute(ctx context.Context, user string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	start := time.Now()
	key := r.Keyer.ProjectsKey(user, opts.KeyOpts())

	if !opts.Refresh {
		if projects, ok := r.lookup(ctx, key); ok {
			r.Logger.Debug("project list cache hit", "user", user)
			return &Result{Projects: projects, CacheHit: true, Duration: time.Since(start)}, nil
		}
	}

	projects, err := NewPipeline(r.Source, opts).Run(ctx, user)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(projects); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("failed to cache project list", "user", user, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "projects", len(data))
		}
	}
	return &Result{Projects: projects, Duration: time.Since(start)}, nil
}

func (r *Runner) lookup(ctx context.Context, key string) ([]Project, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("project list cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "projects")
		return nil, false
	}
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		observability.Cache().OnCacheMiss(ctx, "projects")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "projects")
	return projects, true
}
