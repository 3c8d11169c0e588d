// Package depgraph provides the incrementally built include graph used while
// flattening a shader document.
//
// # Overview
//
// Every time the resolver meets an include directive it records an edge from
// the including document to the included one. The graph is monotonic: edges
// are only ever added during a resolution run and the whole graph is thrown
// away when the run ends.
//
// # Cycle Detection
//
// [Graph.FindCycle] is cheap enough to call after every single insertion,
// which is exactly what the resolver does. Detection runs in two phases:
//
//  1. A depth-first traversal over all vertices tracks which vertices are on
//     the current recursion stack. Revisiting one of them yields a back edge.
//  2. A breadth-first search finds the shortest path between the back edge's
//     endpoints, and the path is closed into a loop.
//
// The result is a [Cycle] whose first and last elements are equal:
//
//	g := depgraph.New()
//	g.AddEdge("main.glsl", "noise.glsl")
//	g.AddEdge("noise.glsl", "main.glsl")
//	fmt.Println(g.FindCycle()) // main.glsl -> noise.glsl -> main.glsl
//
// # Ordering
//
// Vertices and children are traversed in insertion order, so the reported
// cycle is stable for a given sequence of [Graph.AddEdge] calls. Callers
// should still only rely on the properties of the returned cycle (validity,
// length, vertex set), not on which rotation of it is reported.
//
// # Concurrency
//
// A Graph belongs to a single resolution run and is not safe for concurrent
// use.
package depgraph
