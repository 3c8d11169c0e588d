package render

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
	gio "github.com/matzehuels/shaderinc/pkg/io"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatTree = "tree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatTree: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json, tree)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures graph export.
type Options struct {
	// Root is the document the resolution started from. It is drawn bold
	// and is the root of the tree format.
	Root string

	// Cycle is highlighted when non-empty.
	Cycle depgraph.Cycle

	// Base shortens labels to paths relative to this directory.
	Base string
}

// Render exports g in the given format.
func Render(ctx context.Context, g *depgraph.Graph, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatDOT:
		return []byte(ToDOT(g, opts)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(g, opts))
	case FormatJSON:
		var buf bytes.Buffer
		if err := gio.WriteJSON(g, &buf, gio.Meta{Root: opts.Root, Cycle: opts.Cycle}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return []byte(ToTree(g, opts) + "\n"), nil
	}
}

// Label returns the display label of id relative to base. Identifiers
// outside base are returned unchanged.
func Label(id, base string) string {
	if base == "" {
		return id
	}
	rel, err := filepath.Rel(base, id)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return id
	}
	return filepath.ToSlash(rel)
}

// highlight indexes the vertices and edges of a cycle.
type highlight struct {
	vertices map[string]bool
	edges    map[depgraph.Edge]bool
}

func newHighlight(c depgraph.Cycle) highlight {
	h := highlight{
		vertices: make(map[string]bool, len(c)),
		edges:    make(map[depgraph.Edge]bool, len(c)),
	}
	for _, id := range c {
		h.vertices[id] = true
	}
	for _, e := range c.Edges() {
		h.edges[e] = true
	}
	return h
}
