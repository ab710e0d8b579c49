package cli

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/project"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var pf projectFlags

	cmd := &cobra.Command{
		Use:   "browse [user]",
		Short: "Browse a user's projects interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.resolveProjectSettings(cmd, args, &pf, nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := c.open(ctx, s)
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := c.fetchProjects(ctx, b, s, pf.refresh)
			if err != nil {
				return err
			}
			if len(res.Projects) == 0 {
				printWarning("%s has no listed projects", s.User)
				return nil
			}

			final, err := tea.NewProgram(NewProjectListModel(res.Projects), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(ProjectListModel); ok && m.Selected != nil {
				printProject(m.Selected)
			}
			return nil
		},
	}

	pf.register(cmd.Flags())
	return cmd
}

// printProject prints every field of p.
func printProject(p *project.Project) {
	printNewline()
	printSuccess("%s", StyleTitle.Render(p.Title))
	if p.Description != "" {
		printDetail("%s", p.Description)
	}
	printKeyValue("Repository", StyleLink.Render(p.RepoURL))
	if p.LiveURL != nil {
		printKeyValue("Live", StyleLink.Render(*p.LiveURL))
	}
	if p.ImageURL != nil {
		printKeyValue("Image", StyleLink.Render(*p.ImageURL))
	}
	if len(p.Languages) > 0 {
		printKeyValue("Languages", strings.Join(p.Languages, ", "))
	}
	if len(p.Topics) > 0 {
		printKeyValue("Topics", strings.Join(p.Topics, ", "))
	}
	printKeyValue("Stars", StyleNumber.Render(strconv.Itoa(p.Stars)))
	printKeyValue("Created", p.CreatedAt.Format("2006-01-02"))
	printKeyValue("Updated", p.UpdatedAt.Format("2006-01-02"))
	if p.Archived {
		printKeyValue("Status", StyleWarning.Render("archived"))
	}
}
