package fieldgraph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/folio/pkg/indirect"
)

type view = indirect.View[string, int]

func trace(t *testing.T, defs ...indirect.Definition[string, int]) *indirect.Trace[string] {
	t.Helper()
	tr := indirect.NewTrace[string]()
	_, _ = indirect.New(defs...).WithObserver(tr).Resolve()
	return tr
}

func chain(t *testing.T) *indirect.Trace[string] {
	return trace(t,
		indirect.Define("total", func(v *view) (int, error) { return v.MustGet("price") * v.MustGet("qty"), nil }),
		indirect.Define("price", indirect.Const[string](3)),
		indirect.Define("qty", indirect.Const[string](4)),
	)
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(chain(t), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, node := range []string{`"total" [label="total"]`, `"price" [label="price"]`, `"qty" [label="qty"]`} {
		if !strings.Contains(dot, node) {
			t.Errorf("ToDOT() output missing node %s", node)
		}
	}
	if !strings.Contains(dot, `"total" -> "price"`) || !strings.Contains(dot, `"total" -> "qty"`) {
		t.Error("ToDOT() output missing edges")
	}
	if strings.Contains(dot, `"price" -> `) {
		t.Error("ToDOT() constant fields should have no outgoing edges")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(chain(t), Options{Detailed: true, Title: "order"})

	if !strings.Contains(dot, `#1 · `) || !strings.Contains(dot, `#3 · `) {
		t.Errorf("ToDOT() detailed output missing evaluation index:\n%s", dot)
	}
	if !strings.Contains(dot, `label="order"`) {
		t.Error("ToDOT() output missing title")
	}
}

func TestToDOT_Failed(t *testing.T) {
	tr := trace(t,
		indirect.Define("a", func(v *view) (int, error) { return v.Get("b") }),
		indirect.Define("b", func(*view) (int, error) { return 0, errors.New("boom") }),
	)

	dot := ToDOT(tr, Options{})
	if strings.Count(dot, "firebrick") != 4 {
		t.Errorf("ToDOT() should mark both failed fields:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(chain(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(string(svg), "total") {
		t.Error("RenderSVG() output missing node text")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() should fail on invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Errorf("normalizeViewBox() dropped content: %s", out)
	}
}
