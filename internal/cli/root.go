package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/buildinfo"
	"github.com/matzehuels/folio/pkg/observability"
)

// SetVersion overrides the build information shown by --version and
// /healthz. main calls it when values are not injected via ldflags.
func SetVersion(v, c, d string) {
	buildinfo.Version = v
	buildinfo.Commit = c
	buildinfo.Date = d
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --verbose (-v): debug logging, including cache and HTTP events
//   - --config: config file (default $XDG_CONFIG_HOME/folio/config.toml)
//   - --no-cache: bypass the response and project list cache
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Folio builds a project portfolio from GitHub repositories",
		Long:          `Folio lists the public GitHub repositories of a user, derives portfolio entries (languages, preview image, live URL) from them and renders the result as JSON, YAML, Markdown or HTML.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.NewLogHooks(c.Logger).Install()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/folio/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
