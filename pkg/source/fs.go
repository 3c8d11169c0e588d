package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS is a filesystem-backed Store. Identifiers are absolute, cleaned paths
// with symlinks evaluated, so two literals naming the same file always map to
// the same identifier.
type FS struct {
	// Root is the directory include literals are resolved against when
	// Relative is false, and for the root document of a run.
	Root string
	// Relative resolves include literals against the including document's
	// directory instead of Root.
	Relative bool
	// Confine rejects every canonical path outside Root, whether reached
	// through an absolute literal, ".." or a symlink.
	Confine bool
}

// NewFS creates a filesystem store rooted at root. An empty root means the
// current working directory.
func NewFS(root string, relative bool) (*FS, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &FS{Root: abs, Relative: relative}, nil
}

// Read returns the content of the file at id.
func (f *FS) Read(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(id)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Canonicalize resolves literal to an existing file and returns its
// canonical path.
func (f *FS) Canonicalize(literal, base string) (string, error) {
	p := literal
	if !filepath.IsAbs(p) {
		dir := f.Root
		if f.Relative && base != "" {
			dir = filepath.Dir(base)
		}
		p = filepath.Join(dir, p)
	}

	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", p, ErrIsDirectory)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	id, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	if f.Confine && !within(f.Root, id) {
		return "", fmt.Errorf("%s: %w", id, ErrOutsideRoot)
	}
	return id, nil
}

// within reports whether path lies inside dir. Both must be clean and
// absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Ensure FS implements Store.
var _ Store = (*FS)(nil)
