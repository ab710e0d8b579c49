package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/folio/pkg/config"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/project"
	"github.com/matzehuels/folio/pkg/render"
	"github.com/matzehuels/folio/pkg/store"
)

// projectFlags are the flags shared by commands that build project lists.
// Only flags the user set override the config file.
type projectFlags struct {
	exclude         []string
	threshold       float64
	includeForks    bool
	excludeArchived bool
	skipImages      bool
	concurrency     int
	refresh         bool
}

func (f *projectFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.exclude, "exclude", nil, "skip repos whose description contains any of these keywords (default UNLISTED,EMPTY)")
	fs.Float64Var(&f.threshold, "threshold", project.DefaultLanguageThreshold, "minimum share of bytes for a language to be listed")
	fs.BoolVar(&f.includeForks, "include-forks", false, "include forked repositories")
	fs.BoolVar(&f.excludeArchived, "exclude-archived", false, "skip archived repositories")
	fs.BoolVar(&f.skipImages, "skip-images", false, "do not fetch READMEs for preview images")
	fs.IntVar(&f.concurrency, "concurrency", project.DefaultConcurrency, "projects built in parallel")
	fs.BoolVar(&f.refresh, "refresh", false, "bypass cached GitHub responses")
}

func (f *projectFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("exclude") {
		cfg.ExcludeKeywords = f.exclude
	}
	if fs.Changed("threshold") {
		cfg.LanguageThreshold = f.threshold
	}
	if fs.Changed("include-forks") {
		cfg.IncludeForks = f.includeForks
	}
	if fs.Changed("exclude-archived") {
		cfg.ExcludeArchived = f.excludeArchived
	}
	if fs.Changed("skip-images") {
		cfg.SkipImages = f.skipImages
	}
	if fs.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
}

// resolveProjectSettings loads the config, applies the user argument and
// project flags and resolves the result.
func (c *CLI) resolveProjectSettings(cmd *cobra.Command, args []string, pf *projectFlags, override func(*config.Config)) (*config.Settings, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.User = args[0]
	}
	pf.apply(cmd.Flags(), cfg)
	if override != nil {
		override(cfg)
	}
	s, err := config.Resolve(*cfg)
	if err != nil {
		return nil, err
	}
	return s, requireUser(s)
}

// fetchProjects runs the project pipeline for s.User behind a spinner.
func (c *CLI) fetchProjects(ctx context.Context, b *backend, s *config.Settings, refresh bool) (*project.Result, error) {
	opts := s.Project
	opts.Refresh = refresh
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching repositories of %s...", s.User))
	hooks := &progressHooks{PipelineHooks: observability.Pipeline(), spinner: spinner}
	observability.SetPipelineHooks(hooks)
	defer observability.SetPipelineHooks(hooks.PipelineHooks)

	spinner.Start()
	res, err := b.runner.Execute(ctx, s.User, opts)
	spinner.Stop()
	return res, err
}

// progressHooks reports build progress on a spinner and forwards every
// event to the hooks installed before it.
type progressHooks struct {
	observability.PipelineHooks
	spinner *Spinner
	user    string
	built   atomic.Int32
}

func (h *progressHooks) OnFetchStart(ctx context.Context, user string) {
	h.PipelineHooks.OnFetchStart(ctx, user)
	h.user = user
}

func (h *progressHooks) OnBuildComplete(ctx context.Context, repo string, fields int, d time.Duration, err error) {
	h.PipelineHooks.OnBuildComplete(ctx, repo, fields, d, err)
	n := h.built.Add(1)
	h.spinner.Update(fmt.Sprintf("Building projects of %s... %d done", h.user, n))
}

// projectsCommand creates the projects command.
func (c *CLI) projectsCommand() *cobra.Command {
	var (
		pf     projectFlags
		format string
		output string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "projects [user]",
		Short: "Build a user's project list and render it",
		Long: `Build the project list of a GitHub user and render it.

The format follows --format, or else the extension of --output, and
defaults to JSON on stdout.`,
		Example: `  folio projects octocat
  folio projects octocat -o projects.md
  folio projects octocat --format html --exclude-archived --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.resolveProjectSettings(cmd, args, &pf, func(cfg *config.Config) {
				if cmd.Flags().Changed("format") {
					cfg.Format = format
				}
				if cmd.Flags().Changed("output") {
					cfg.Output = output
				}
			})
			if err != nil {
				return err
			}
			if save && s.StoreBackend != config.StoreMongo {
				return ferrors.New(ferrors.ErrCodeInvalidConfig,
					"--save needs a snapshot store; set store.mongo_uri or %s", config.EnvMongoURI)
			}

			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			b, err := c.open(ctx, s)
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := c.fetchProjects(ctx, b, s, pf.refresh)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Built %d projects", len(res.Projects)))

			if save {
				if err := c.saveSnapshot(ctx, s, res.Projects); err != nil {
					return err
				}
			}
			return writeProjects(ctx, cmd.OutOrStdout(), s, res)
		},
	}

	pf.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml, markdown or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&save, "save", false, "save the project list as a snapshot")

	return cmd
}

func (c *CLI) saveSnapshot(ctx context.Context, s *config.Settings, projects []project.Project) error {
	st, err := c.openStore(ctx, s)
	if err != nil {
		return err
	}
	defer st.Close()

	snap := store.NewSnapshot(s.User, projects)
	if err := st.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	loggerFromContext(ctx).Info("saved snapshot", "id", snap.ID, "user", snap.User)
	return nil
}

// writeProjects renders res to s.Output, or to stdout when no file is set.
func writeProjects(ctx context.Context, stdout io.Writer, s *config.Settings, res *project.Result) error {
	site := render.Site{
		Title:       s.Title,
		Description: s.Description,
		User:        s.User,
		GeneratedAt: time.Now().UTC(),
	}

	if s.Output == "" || s.Output == "-" {
		return render.Render(ctx, stdout, site, res.Projects, s.Format)
	}

	f, err := os.Create(s.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render.Render(ctx, f, site, res.Projects, s.Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Rendered %s", s.Format)
	printFile(s.Output)
	printStats(len(res.Projects), countLanguages(res.Projects), res.CacheHit)
	printNextStep("Browse interactively", "folio browse "+s.User)
	return nil
}

func countLanguages(projects []project.Project) int {
	seen := map[string]bool{}
	for _, p := range projects {
		for _, l := range p.Languages {
			seen[l] = true
		}
	}
	return len(seen)
}
