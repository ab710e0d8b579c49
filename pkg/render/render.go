package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/project"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// Site describes the page a project list is rendered into.
type Site struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	User        string    `json:"user" yaml:"user"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// SiteFor returns the default page header for user's projects. An empty
// user yields a generic title and no description.
func SiteFor(user string) Site {
	if user == "" {
		return Site{Title: "Projects"}
	}
	return Site{
		Title:       user + "'s projects",
		Description: "Open-source work by " + user + " on GitHub.",
		User:        user,
	}
}

// Document is the serialized form of a rendered portfolio.
type Document struct {
	Site     Site              `json:"site" yaml:"site"`
	Projects []project.Project `json:"projects" yaml:"projects"`
}

// FormatFromExt maps a file extension (with or without the dot) to a format.
// It returns "" for unknown extensions.
func FormatFromExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "md", "markdown":
		return FormatMarkdown
	case "html", "htm":
		return FormatHTML
	}
	return ""
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Render writes projects to w in format.
func Render(ctx context.Context, w io.Writer, site Site, projects []project.Project, format string) error {
	if err := errors.ValidateFormat(format, Formats); err != nil {
		return err
	}
	if projects == nil {
		projects = []project.Project{}
	}

	start := time.Now()
	var buf bytes.Buffer
	err := encode(&buf, Document{Site: site, Projects: projects}, format)
	observability.Pipeline().OnRenderComplete(ctx, format, buf.Len(), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func encode(w io.Writer, doc Document, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		return markdownTemplate.Execute(w, doc)
	default:
		return htmlTemplate.Execute(w, doc)
	}
}
