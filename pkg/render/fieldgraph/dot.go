package fieldgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/folio/pkg/indirect"
)

// Options configures field graph rendering.
type Options struct {
	// Detailed adds the evaluation index and duration to node labels.
	// When false, only the field key is shown.
	Detailed bool

	// Title is drawn above the graph when set.
	Title string
}

// ToDOT converts a trace into Graphviz DOT. Each evaluated field becomes a
// node and each read becomes an edge from the reading field to the field it
// read. Fields whose definition failed are drawn in red.
//
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(tr *indirect.Trace[string], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  labelloc=t;\n  label=%q;\n", opts.Title)
	}
	buf.WriteString("\n")

	for i, key := range tr.Order {
		label := fmtLabel(key, i, tr.Durations[key], opts.Detailed)
		attrs := fmtAttrs(label, tr.Errors[key] != nil)
		fmt.Fprintf(&buf, "  %q [%s];\n", key, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range tr.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(key string, index int, d time.Duration, detailed bool) string {
	if !detailed {
		return key
	}
	return fmt.Sprintf("%s\n#%d · %s", key, index+1, d.Round(time.Microsecond))
}

func fmtAttrs(label string, failed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if failed {
		attrs = append(attrs, "color=firebrick", "fillcolor=mistyrose", "fontcolor=firebrick")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with one sized
// from the viewBox so the drawing scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
