package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
)

var (
	styleTreeRoot  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleTreeEnum  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleTreeCycle = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

// cycleMark is appended to a document that is already open on the current
// include chain.
const cycleMark = " ↺"

// ToTree draws the include tree under opts.Root the way the resolver walks
// it: a document included twice appears twice. A document that is already
// on the current chain is drawn once more with a cycle mark and not
// expanded.
//
// When opts.Root is empty the first vertex is used. An empty graph renders
// as just the root label.
func ToTree(g *depgraph.Graph, opts Options) string {
	root := opts.Root
	if root == "" {
		vs := g.Vertices()
		if len(vs) == 0 {
			return ""
		}
		root = vs[0]
	}

	h := newHighlight(opts.Cycle)
	t := tree.Root(styleTreeRoot.Render(Label(root, opts.Base))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleTreeEnum)

	onPath := map[string]bool{root: true}
	addChildren(t, g, root, opts, h, onPath)
	return t.String()
}

func addChildren(t *tree.Tree, g *depgraph.Graph, id string, opts Options, h highlight, onPath map[string]bool) {
	for _, child := range g.Children(id) {
		label := Label(child, opts.Base)
		if onPath[child] {
			t.Child(styleTreeCycle.Render(label + cycleMark))
			continue
		}
		if h.edges[depgraph.Edge{From: id, To: child}] {
			label = styleTreeCycle.Render(label)
		}
		if len(g.Children(child)) == 0 {
			t.Child(label)
			continue
		}
		sub := tree.Root(label)
		onPath[child] = true
		addChildren(sub, g, child, opts, h, onPath)
		onPath[child] = false
		t.Child(sub)
	}
}
