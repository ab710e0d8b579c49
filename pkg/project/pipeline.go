package project

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/observability"
)

// Pipeline fetches a user's repositories and builds their projects.
type Pipeline struct {
	Source  Source
	Options Options
}

// NewPipeline returns a Pipeline reading from src.
func NewPipeline(src Source, opts Options) *Pipeline {
	opts.SetDefaults()
	return &Pipeline{Source: src, Options: opts}
}

// Run lists the public repositories of user, filters them and builds one
// Project per remaining repository, keeping the listing order. Projects are
// built concurrently up to Options.Concurrency. The first failure cancels
// the remaining builds and is returned alone.
func (p *Pipeline) Run(ctx context.Context, user string) ([]Project, error) {
	if err := errors.ValidateUsername(user); err != nil {
		return nil, err
	}
	opts := p.Options
	opts.SetDefaults()
	logger := opts.Logger
	hooks := observability.Pipeline()

	hooks.OnFetchStart(ctx, user)
	start := time.Now()
	repos, err := p.Source.ListRepos(ctx, user, opts.Refresh)
	hooks.OnFetchComplete(ctx, user, len(repos), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list repositories of %s: %w", user, err)
	}

	kept := Filter(repos, opts)
	logger.Info("listed repositories",
		"user", user,
		"total", len(repos),
		"kept", len(kept),
		"duration", time.Since(start))

	projects := make([]Project, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, repo := range kept {
		g.Go(func() error {
			buildStart := time.Now()
			proj, fields, err := build(gctx, p.Source, repo, opts, nil)
			hooks.OnBuildComplete(gctx, repo.Name, fields, time.Since(buildStart), err)
			if err != nil {
				return fmt.Errorf("build %s: %w", repo.Name, err)
			}
			projects[i] = *proj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("built projects", "user", user, "count", len(projects), "duration", time.Since(start))
	return projects, nil
}
