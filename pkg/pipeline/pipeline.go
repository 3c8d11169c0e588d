// Package pipeline runs include resolution with output caching.
//
// Both the CLI and the HTTP API go through a [Runner] so that cache
// validation, run IDs, logging and observability hooks behave the same
// everywhere.
//
// # Stages
//
//  1. Resolve: flatten the root document, building a fresh include graph.
//     The flattened text is cached together with the SHA-256 of every file
//     that was read; an entry is only served if all of those files still
//     hash the same.
//  2. Render (optional): export the include graph in the requested formats.
//     Artifacts are cached by graph hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:     "shaders/main.frag",
//	    Root:     ".",
//	    Relative: true,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("main.flat.frag", []byte(result.Text), 0o644)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shaderinc/pkg/cache"
	"github.com/matzehuels/shaderinc/pkg/depgraph"
	"github.com/matzehuels/shaderinc/pkg/render"
	"github.com/matzehuels/shaderinc/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth bounds include nesting. Real shader trees rarely nest
	// more than a handful of levels; anything deeper is almost certainly
	// generated input gone wrong.
	DefaultMaxDepth = 64
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one resolution.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Path is the root document literal, resolved like an include literal.
	Path string `json:"path"`

	// Base is the identifier Path is resolved against in relative mode.
	// Empty resolves against Root.
	Base string `json:"base,omitempty"`

	// Root is the filesystem root for the default FS store.
	Root string `json:"root,omitempty"`

	// Relative resolves includes against the including document's directory.
	Relative bool `json:"relative,omitempty"`

	// Confine keeps the default FS store inside Root: includes that resolve
	// outside it fail as unresolvable.
	Confine bool `json:"confine,omitempty"`

	// MaxDepth limits include nesting. Negative means unlimited.
	MaxDepth int `json:"max_depth,omitempty"`

	// Refresh ignores cached output (the result is still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Formats lists include-graph exports to render after resolving.
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)

	// Store replaces the FS store. StoreID must identify its content for
	// output caching; an empty StoreID disables caching for the run.
	Store   source.Store `json:"-"`
	StoreID string       `json:"-"`
	Logger  *log.Logger  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Root is the canonical identifier of the root document.
	Root string

	// Text is the flattened document. Empty when resolution failed.
	Text string

	// Graph is the include graph. On failure it is the partial graph.
	Graph *depgraph.Graph

	// Cycle is the cycle that failed the run, if any.
	Cycle depgraph.Cycle

	// Files lists every document read, in first-read order.
	Files []string

	// Artifacts contains rendered graph exports keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Documents   int
	Includes    int
	EdgeCount   int
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	OutputHit bool // Whether the flattened text came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" {
		return fmt.Errorf("path is required")
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// resolverDepth maps MaxDepth to the resolver's convention (0 = unlimited).
func (o *Options) resolverDepth() int {
	if o.MaxDepth < 0 {
		return 0
	}
	return o.MaxDepth
}

// openStore returns the configured store and the identity used in cache
// keys. An empty identity means the run is not cacheable.
func (o *Options) openStore() (source.Store, string, error) {
	if o.Store != nil {
		return o.Store, o.StoreID, nil
	}
	fs, err := source.NewFS(o.Root, o.Relative)
	if err != nil {
		return nil, "", err
	}
	fs.Confine = o.Confine
	id := "fs:" + fs.Root
	if fs.Confine {
		id += "?confined"
	}
	return fs, id, nil
}

// labelBase is the directory graph labels are shown relative to.
func (o *Options) labelBase() string {
	if o.Store != nil {
		return ""
	}
	fs, err := source.NewFS(o.Root, o.Relative)
	if err != nil {
		return ""
	}
	return fs.Root
}

// OutputKeyOpts returns cache key options for the flattened output.
func (o *Options) OutputKeyOpts(storeID string) cache.OutputKeyOpts {
	return cache.OutputKeyOpts{
		Relative: o.Relative,
		MaxDepth: o.MaxDepth,
		Source:   storeID,
	}
}
