package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/config"
	ferrors "github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/indirect"
	"github.com/matzehuels/folio/pkg/integrations"
	"github.com/matzehuels/folio/pkg/integrations/github"
	"github.com/matzehuels/folio/pkg/project"
	"github.com/matzehuels/folio/pkg/render/fieldgraph"
)

// explainCommand creates the explain command.
func (c *CLI) explainCommand() *cobra.Command {
	var (
		dotPath  string
		svgPath  string
		detailed bool
		sample   bool
	)

	cmd := &cobra.Command{
		Use:   "explain [owner/repo]",
		Short: "Show how a project is derived from its repository",
		Long: `Build one project while tracing its fields, then print the order in
which fields were evaluated and which fields each one read.

Without an argument a built-in sample repository is used and nothing is
fetched from GitHub.`,
		Example: `  folio explain
  folio explain octocat/hello-world --svg fields.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := config.Resolve(*cfg)
			if err != nil {
				return err
			}

			var (
				src  project.Source = sampleSource{}
				repo                = sampleRepo()
			)
			if len(args) == 1 && !sample {
				owner, name, err := ferrors.ParseRepoPath(args[0])
				if err != nil {
					return err
				}
				b, err := c.open(ctx, s)
				if err != nil {
					return err
				}
				defer b.Close()

				r, err := b.source.Repo(ctx, owner, name, false)
				if err != nil {
					return err
				}
				src, repo = b.source, *r
			}

			opts := s.Project
			opts.Logger = loggerFromContext(ctx)
			tr := indirect.NewTrace[string]()
			start := time.Now()
			p, buildErr := project.BuildObserved(ctx, src, repo, opts, tr)

			printTrace(cmd.OutOrStdout(), tr)
			if buildErr != nil {
				printError("failed to build %s", repo.FullName)
				return buildErr
			}
			printSuccess("Built %s from %d fields in %s", p.Title, len(tr.Order), time.Since(start).Round(time.Millisecond))

			gopts := fieldgraph.Options{Detailed: detailed, Title: repo.FullName}
			if dotPath != "" {
				if err := os.WriteFile(dotPath, []byte(fieldgraph.ToDOT(tr, gopts)), 0o644); err != nil {
					return fmt.Errorf("write dot: %w", err)
				}
				printFile(dotPath)
			}
			if svgPath != "" {
				svg, err := fieldgraph.RenderSVG(ctx, fieldgraph.ToDOT(tr, gopts))
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
					return fmt.Errorf("write svg: %w", err)
				}
				printFile(svgPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dotPath, "dot", "", "write the field graph as Graphviz DOT")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the field graph as SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add evaluation order and timing to graph nodes")
	cmd.Flags().BoolVar(&sample, "sample", false, "use the built-in sample even when a repository is given")

	return cmd
}

// printTrace renders the evaluation order as a table: one row per field
// with the fields it read and its wall time.
func printTrace(w io.Writer, tr *indirect.Trace[string]) {
	rows := make([][]string, 0, len(tr.Order))
	for i, key := range tr.Order {
		reads := "—"
		if deps := tr.Dependencies(key); len(deps) > 0 {
			reads = strings.Join(deps, ", ")
		}
		status := tr.Durations[key].Round(time.Microsecond).String()
		if err := tr.Errors[key]; err != nil {
			status = "failed"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), key, reads, status})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Field", "Reads", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return listHeaderStyle
			case row < len(tr.Order) && tr.Errors[tr.Order[row]] != nil:
				return lipgloss.NewStyle().Foreground(colorRed)
			case col == 0 || col == 3:
				return StyleDim
			case col == 1:
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())
}

// sampleRepo is a fixed repository used when explain runs without a repository.
func sampleRepo() github.Repo {
	desc := "A tiny portfolio generator"
	home := "https://octocat.github.io/folio-sample"
	pushed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return github.Repo{
		ID:            1296269,
		Name:          "folio-sample",
		FullName:      "octocat/folio-sample",
		Description:   &desc,
		HTMLURL:       "https://github.com/octocat/folio-sample",
		Homepage:      &home,
		CreatedAt:     time.Date(2021, 3, 14, 9, 26, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC),
		PushedAt:      &pushed,
		Topics:        []string{"portfolio", "github"},
		LanguagesURL:  "https://api.github.com/repos/octocat/folio-sample/languages",
		DefaultBranch: "main",
		Stars:         42,
	}
}

// sampleSource serves canned upstream data for sampleRepo.
type sampleSource struct{}

func (sampleSource) ListRepos(context.Context, string, bool) ([]github.Repo, error) {
	return []github.Repo{sampleRepo()}, nil
}

func (sampleSource) Languages(context.Context, string, bool) (map[string]int, error) {
	return map[string]int{"Go": 48210, "HTML": 6120, "Makefile": 310}, nil
}

func (sampleSource) Readme(_ context.Context, owner, repo string, _ bool) (string, error) {
	if owner != "octocat" || repo != "folio-sample" {
		return "", integrations.ErrNotFound
	}
	return "# folio-sample\n\n![screenshot](docs/screenshot.png)\n\nBuilds a portfolio page.\n", nil
}
