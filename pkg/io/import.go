package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
)

// ReadJSON decodes a JSON include graph from r.
//
// Nodes are added before edges so isolated vertices survive the round trip.
// Edges must reference declared nodes. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*depgraph.Graph, Meta, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, Meta{}, fmt.Errorf("decode: %w", err)
	}
	return fromJSON(data)
}

// UnmarshalJSON decodes data produced by MarshalJSON or WriteJSON.
func UnmarshalJSON(b []byte) (*depgraph.Graph, Meta, error) {
	var data graph
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, Meta{}, fmt.Errorf("decode: %w", err)
	}
	return fromJSON(data)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*depgraph.Graph, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func fromJSON(data graph) (*depgraph.Graph, Meta, error) {
	g := depgraph.New()
	known := make(map[string]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		if n.ID == "" {
			return nil, Meta{}, fmt.Errorf("node with empty id")
		}
		if known[n.ID] {
			return nil, Meta{}, fmt.Errorf("node %s: duplicate id", n.ID)
		}
		known[n.ID] = true
		g.AddVertex(n.ID)
	}
	for _, e := range data.Edges {
		if !known[e.From] || !known[e.To] {
			return nil, Meta{}, fmt.Errorf("edge %s->%s: unknown node", e.From, e.To)
		}
		g.AddEdge(e.From, e.To)
	}
	return g, Meta{Root: data.Root, Cycle: data.Cycle}, nil
}
