// Package source provides the storage and path canonicalization
// collaborators the include resolver reads documents through.
//
// Two implementations are provided:
//
//   - [FS] reads shader files from disk and canonicalizes include literals to
//     absolute, symlink-free paths.
//   - [Memory] serves documents from a map. The HTTP API uses it for inline
//     uploads and tests use it for fixtures.
//
// Relative-versus-root resolution is a property of the canonicalizer, not of
// the resolver: with Relative set, an include literal is resolved against the
// directory of the including document; otherwise against a fixed root.
package source

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document or include target does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrIsDirectory is returned when an include literal names a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrOutsideRoot is returned by a confined FS for targets that resolve,
	// symlinks included, to a file outside its root.
	ErrOutsideRoot = errors.New("path is outside the root directory")
)

// Reader loads the raw text of a document by canonical identifier.
type Reader interface {
	Read(ctx context.Context, id string) (string, error)
}

// Canonicalizer turns an include literal into a comparison-stable document
// identifier. base is the identifier of the including document, or "" for
// the root document of a run.
type Canonicalizer interface {
	Canonicalize(literal, base string) (string, error)
}

// Store is a Reader that also canonicalizes its own identifiers.
type Store interface {
	Reader
	Canonicalizer
}
