package depgraph

import (
	"slices"
	"strings"
)

// Cycle is a closed path through the graph. The first and last elements are
// the same vertex, so a self-loop on a is [a a].
type Cycle []string

// String renders the cycle as an arrow-joined chain, e.g. "a -> b -> a".
func (c Cycle) String() string { return strings.Join(c, " -> ") }

// Edges returns the consecutive pairs that make up the cycle.
func (c Cycle) Edges() []Edge {
	if len(c) < 2 {
		return nil
	}
	out := make([]Edge, 0, len(c)-1)
	for i := 0; i+1 < len(c); i++ {
		out = append(out, Edge{From: c[i], To: c[i+1]})
	}
	return out
}

// FindCycle returns the first cycle found in the graph as currently built, or
// nil if the graph is acyclic.
//
// The cycle runs from the ancestor end of the first back edge found by a
// depth-first traversal, along the shortest path to the vertex that closed
// the loop, and back to the ancestor.
func (g *Graph) FindCycle() Cycle {
	ancestor, closer, ok := g.findBackEdge()
	if !ok {
		return nil
	}
	pred := g.shortestPath(ancestor, closer)
	return reconstruct(ancestor, closer, pred)
}

// findBackEdge walks every vertex not yet finished by an earlier start. It
// returns (ancestor, closer) for the first edge closer→ancestor whose target
// is still on the recursion stack.
func (g *Graph) findBackEdge() (string, string, bool) {
	onStack := make(map[string]bool)
	finished := make(map[string]bool)

	var visit func(v string) (string, string, bool)
	visit = func(v string) (string, string, bool) {
		onStack[v] = true
		for _, child := range g.outgoing[v] {
			if onStack[child] {
				return child, v, true
			}
			if finished[child] {
				continue
			}
			if a, c, ok := visit(child); ok {
				return a, c, true
			}
		}
		delete(onStack, v)
		finished[v] = true
		return "", "", false
	}

	for _, v := range g.vertices {
		if finished[v] {
			continue
		}
		if a, c, ok := visit(v); ok {
			return a, c, true
		}
	}
	return "", "", false
}

// shortestPath runs a breadth-first search from start and returns the
// predecessor map, stopping as soon as end is reached. When start == end the
// map is empty.
func (g *Graph) shortestPath(start, end string) map[string]string {
	pred := make(map[string]string)
	if start == end {
		return pred
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, child := range g.outgoing[v] {
			if visited[child] {
				continue
			}
			visited[child] = true
			pred[child] = v
			if child == end {
				return pred
			}
			queue = append(queue, child)
		}
	}
	return pred
}

// reconstruct walks pred back from end to start and closes the loop, giving
// [start ... end start].
func reconstruct(start, end string, pred map[string]string) Cycle {
	path := Cycle{end}
	for at := end; ; {
		p, ok := pred[at]
		if !ok {
			break
		}
		path = append(path, p)
		at = p
	}
	slices.Reverse(path)
	return append(path, start)
}
