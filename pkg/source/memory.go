package source

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Memory is a map-backed Store. Identifiers are cleaned, slash-separated
// absolute paths ("/lib/noise.glsl").
type Memory struct {
	files    map[string]string
	relative bool
}

// NewMemory creates a store from name→content pairs. Names are normalized
// the same way include literals are, so "lib/a.glsl" and "/lib/./a.glsl" are
// the same document.
func NewMemory(files map[string]string, relative bool) *Memory {
	m := &Memory{files: make(map[string]string, len(files)), relative: relative}
	for name, text := range files {
		m.Add(name, text)
	}
	return m
}

// Add stores or replaces a document.
func (m *Memory) Add(name, text string) {
	m.files[clean(name)] = text
}

// Names returns all stored identifiers, sorted.
func (m *Memory) Names() []string {
	out := make([]string, 0, len(m.files))
	for id := range m.files {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Read returns the stored text for id.
func (m *Memory) Read(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := m.files[id]
	if !ok {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return text, nil
}

// Canonicalize maps literal to a stored identifier.
func (m *Memory) Canonicalize(literal, base string) (string, error) {
	p := literal
	if !strings.HasPrefix(p, "/") && m.relative && base != "" {
		p = path.Join(path.Dir(base), p)
	}
	id := clean(p)
	if _, ok := m.files[id]; !ok {
		return "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return id, nil
}

func clean(name string) string {
	return path.Clean("/" + name)
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
