package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/folio/pkg/project"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// ProjectListModel - Interactive project browser
// =============================================================================

// ProjectListModel is the bubbletea model for browsing a project list.
// Enter selects the project under the cursor and quits.
type ProjectListModel struct {
	Projects []project.Project
	Cursor   int
	Selected *project.Project
	Height   int
	Offset   int

	now func() time.Time
}

// NewProjectListModel creates a new project list model.
func NewProjectListModel(projects []project.Project) ProjectListModel {
	return ProjectListModel{
		Projects: projects,
		Height:   15,
		now:      time.Now,
	}
}

func (m ProjectListModel) Init() tea.Cmd {
	return nil
}

func (m ProjectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Projects)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Projects); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter":
			if len(m.Projects) == 0 {
				return m, nil
			}
			p := m.Projects[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ProjectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Projects"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Projects) == 0 {
		b.WriteString(listDimStyle.Render("  no projects"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Projects))
	now := time.Now
	if m.now != nil {
		now = m.now
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Projects[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		langs := "—"
		if len(p.Languages) > 0 {
			langs = strings.Join(p.Languages, ", ")
		}

		flags := ""
		if p.LiveURL != nil {
			flags += "live "
		}
		if p.ImageURL != nil {
			flags += "img "
		}
		if p.Archived {
			flags += "archived"
		}

		rows = append(rows, []string{
			cursor,
			p.Title,
			langs,
			strconv.Itoa(p.Stars),
			formatRelativeTime(p.UpdatedAt, now()),
			strings.TrimSpace(flags),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Project", "Languages", "★", "Updated", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return listHeaderStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Projects) {
				return lipgloss.NewStyle()
			}
			p := m.Projects[idx]
			current := idx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
				if current {
					base = base.Foreground(colorGray)
				}
			}
			switch {
			case current && col < 3:
				return base.Foreground(colorCyan).Bold(true)
			case current:
				return base.Bold(true)
			case p.Archived:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Projects))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
