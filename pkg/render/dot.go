package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
)

const cycleColor = "#d9534f"

// ToDOT converts an include graph to Graphviz DOT. Edges point from the
// including document to the included one.
func ToDOT(g *depgraph.Graph, opts Options) string {
	h := newHighlight(opts.Cycle)

	var buf bytes.Buffer
	buf.WriteString("digraph includes {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range g.Vertices() {
		attrs := fmtNodeAttrs(id, opts, h)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if h.edges[e] {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", e.From, e.To, cycleColor)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNodeAttrs(id string, opts Options, h highlight) []string {
	attrs := []string{fmt.Sprintf("label=%q", Label(id, opts.Base))}
	if id == opts.Root {
		attrs = append(attrs, "penwidth=2", "fontname=\"Helvetica-Bold\"")
	}
	if h.vertices[id] {
		attrs = append(attrs, fmt.Sprintf("color=%q", cycleColor), "fillcolor=\"#fbe9e8\"")
	}
	return attrs
}
