package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
)

// Meta is the graph context exported alongside vertices and edges.
type Meta struct {
	Root  string
	Cycle depgraph.Cycle
}

type graph struct {
	Root  string   `json:"root,omitempty"`
	Nodes []node   `json:"nodes"`
	Edges []edge   `json:"edges"`
	Cycle []string `json:"cycle,omitempty"`
}

type node struct {
	ID    string `json:"id"`
	Cycle bool   `json:"cycle,omitempty"`
}

type edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Cycle bool   `json:"cycle,omitempty"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *depgraph.Graph, w io.Writer, meta Meta) error {
	out := toJSON(g, meta)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON encodes g compactly. The output is deterministic for a given
// insertion sequence, so it is suitable for hashing.
func MarshalJSON(g *depgraph.Graph, meta Meta) ([]byte, error) {
	return json.Marshal(toJSON(g, meta))
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *depgraph.Graph, meta Meta, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f, meta)
}

func toJSON(g *depgraph.Graph, meta Meta) graph {
	onCycle := make(map[string]bool, len(meta.Cycle))
	for _, id := range meta.Cycle {
		onCycle[id] = true
	}
	cycleEdge := make(map[depgraph.Edge]bool, len(meta.Cycle))
	for _, e := range meta.Cycle.Edges() {
		cycleEdge[e] = true
	}

	out := graph{
		Root:  meta.Root,
		Nodes: make([]node, 0, g.VertexCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
		Cycle: meta.Cycle,
	}
	for _, id := range g.Vertices() {
		out.Nodes = append(out.Nodes, node{ID: id, Cycle: onCycle[id]})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To, Cycle: cycleEdge[e]})
	}
	return out
}
