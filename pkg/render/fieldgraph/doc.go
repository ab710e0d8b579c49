// Package fieldgraph draws the field dependency graph of a resolution.
//
// An [indirect.Trace] records which fields were evaluated, in which order,
// and which fields each definition read. [ToDOT] turns that into a Graphviz
// digraph with edges from reader to dependency; [RenderSVG] lays it out
// with the embedded Graphviz build from github.com/goccy/go-graphviz, so no
// system installation is required.
//
//	tr := indirect.NewTrace[string]()
//	_, err := project.BuildObserved(ctx, src, repo, opts, tr)
//	svg, err := fieldgraph.RenderSVG(ctx, fieldgraph.ToDOT(tr, fieldgraph.Options{Detailed: true}))
//
// [indirect.Trace]: https://pkg.go.dev/github.com/matzehuels/folio/pkg/indirect#Trace
package fieldgraph
