// Package render writes project lists in the formats folio publishes.
//
// # Formats
//
//   - json: indented [Document] with stable field names
//   - yaml: the same document through gopkg.in/yaml.v3
//   - markdown: a heading followed by one section per project
//   - html: a self-contained page with inline styles
//
//	err := render.Render(ctx, os.Stdout, site, projects, render.FormatMarkdown)
//
// Unknown formats are rejected with an INVALID_FORMAT error. Only http(s)
// image and live links are emitted in markdown and HTML.
//
// # Field graphs
//
// The [fieldgraph] subpackage draws the field dependency graph recorded by
// an [indirect.Trace] with Graphviz.
//
// [fieldgraph]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/render/fieldgraph
// [indirect.Trace]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/indirect#Trace
package render
