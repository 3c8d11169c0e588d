package render

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
)

func cyclicGraph() *depgraph.Graph {
	g := depgraph.New()
	g.AddEdge("/main.frag", "/light.glsl")
	g.AddEdge("/light.glsl", "/brdf.glsl")
	g.AddEdge("/brdf.glsl", "/light.glsl")
	return g
}

func diamondGraph() *depgraph.Graph {
	g := depgraph.New()
	g.AddEdge("/a", "/b")
	g.AddEdge("/a", "/c")
	g.AddEdge("/b", "/d")
	g.AddEdge("/c", "/d")
	return g
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"json", false},
		{"tree", false},
		{"png", true},
		{"DOT", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestToDOT_Basic(t *testing.T) {
	g := depgraph.New()
	g.AddEdge("a", "b")

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "digraph includes") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"a" [label="a"]`) {
		t.Errorf("ToDOT() output missing node a:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Error("ToDOT() output missing edge")
	}
	if strings.Contains(dot, cycleColor) {
		t.Error("acyclic graph should not be highlighted")
	}
}

func TestToDOT_Cycle(t *testing.T) {
	g := cyclicGraph()
	dot := ToDOT(g, Options{Root: "/main.frag", Cycle: g.FindCycle()})

	if !strings.Contains(dot, `"/brdf.glsl" -> "/light.glsl" [color="`+cycleColor) {
		t.Errorf("closing edge not highlighted:\n%s", dot)
	}
	if strings.Contains(dot, `"/main.frag" -> "/light.glsl" [`) {
		t.Error("edge outside the cycle highlighted")
	}
	if !strings.Contains(dot, `"/main.frag" [label="/main.frag", penwidth=2`) {
		t.Errorf("root not emphasized:\n%s", dot)
	}
}

func TestLabel(t *testing.T) {
	base := filepath.FromSlash("/proj/shaders")
	tests := []struct {
		id, base, want string
	}{
		{filepath.FromSlash("/proj/shaders/lib/a.glsl"), base, "lib/a.glsl"},
		{filepath.FromSlash("/proj/other/b.glsl"), base, filepath.FromSlash("/proj/other/b.glsl")},
		{"/x", "", "/x"},
	}
	for _, tt := range tests {
		if got := Label(tt.id, tt.base); got != tt.want {
			t.Errorf("Label(%q, %q) = %q, want %q", tt.id, tt.base, got, tt.want)
		}
	}
}

func TestToTree_Diamond(t *testing.T) {
	out := ToTree(diamondGraph(), Options{Root: "/a"})
	if n := strings.Count(out, "/d"); n != 2 {
		t.Errorf("/d drawn %d times, want 2:\n%s", n, out)
	}
	if !strings.HasPrefix(out, "/a") {
		t.Errorf("tree does not start at root:\n%s", out)
	}
}

func TestToTree_Cycle(t *testing.T) {
	g := cyclicGraph()
	out := ToTree(g, Options{Root: "/main.frag", Cycle: g.FindCycle()})
	if !strings.Contains(out, "/light.glsl"+cycleMark) {
		t.Errorf("cycle not marked:\n%s", out)
	}
	if n := strings.Count(out, "/light.glsl"); n != 2 {
		t.Errorf("/light.glsl drawn %d times, want 2:\n%s", n, out)
	}
}

func TestToTree_DefaultRoot(t *testing.T) {
	if out := ToTree(depgraph.New(), Options{}); out != "" {
		t.Errorf("empty graph tree = %q", out)
	}
	out := ToTree(diamondGraph(), Options{})
	if !strings.HasPrefix(out, "/a") {
		t.Errorf("default root not first vertex:\n%s", out)
	}
}

func TestRender_JSON(t *testing.T) {
	g := cyclicGraph()
	data, err := Render(context.Background(), g, FormatJSON, Options{Root: "/main.frag", Cycle: g.FindCycle()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var doc struct {
		Root  string   `json:"root"`
		Cycle []string `json:"cycle"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Root != "/main.frag" || len(doc.Cycle) != 3 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestRender_InvalidFormat(t *testing.T) {
	if _, err := Render(context.Background(), depgraph.New(), "png", Options{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := Render(context.Background(), diamondGraph(), FormatSVG, Options{Root: "/a"})
	if err != nil {
		t.Fatalf("Render svg: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Error("viewBox not normalized")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if string(normalizeViewBox([]byte("<svg></svg>"))) != "<svg></svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}
