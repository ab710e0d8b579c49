package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GitHub response and project list cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheSettings(cmd *cobra.Command) (*config.Settings, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return config.Resolve(*cfg)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.cacheSettings(cmd)
			if err != nil {
				return err
			}

			switch s.CacheBackend {
			case config.CacheNone:
				printInfo("Caching is disabled")
				return nil
			case config.CacheRedis:
				printWarning("Redis entries are not cleared; they expire after %s", s.CacheTTL)
				return nil
			}

			fc, err := cache.NewFileCache(s.CacheDir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			count, err := fc.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.cacheSettings(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.CacheDir)
			return nil
		},
	}
}
