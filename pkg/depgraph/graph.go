package depgraph

import "slices"

// Edge is a directed include relation: From includes To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph over canonical document identifiers.
//
// The zero value is not usable - use New.
type Graph struct {
	vertices []string                       // insertion order
	known    map[string]struct{}            // vertex set
	outgoing map[string][]string            // vertex -> children, insertion order
	edgeSet  map[string]map[string]struct{} // vertex -> children set
	edges    []Edge
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		known:    make(map[string]struct{}),
		outgoing: make(map[string][]string),
		edgeSet:  make(map[string]map[string]struct{}),
	}
}

// AddEdge registers the directed edge from→to. Self-edges are allowed and
// adding an existing edge again has no effect.
func (g *Graph) AddEdge(from, to string) {
	g.AddVertex(from)
	g.AddVertex(to)

	children, ok := g.edgeSet[from]
	if !ok {
		children = make(map[string]struct{})
		g.edgeSet[from] = children
	}
	if _, dup := children[to]; dup {
		return
	}
	children[to] = struct{}{}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// AddVertex registers id without edges. Adding a known vertex has no effect.
func (g *Graph) AddVertex(id string) {
	if _, ok := g.known[id]; ok {
		return
	}
	g.known[id] = struct{}{}
	g.vertices = append(g.vertices, id)
}

// HasEdge reports whether the edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeSet[from][to]
	return ok
}

// HasVertex reports whether id is a known vertex.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.known[id]
	return ok
}

// Children returns the documents id includes directly, in insertion order.
// A vertex without outgoing edges yields nil. The returned slice must not be
// modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Vertices returns all known vertices in the order they were first seen.
func (g *Graph) Vertices() []string { return slices.Clone(g.vertices) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// VertexCount returns the number of known vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
