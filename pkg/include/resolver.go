package include

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
	"github.com/matzehuels/shaderinc/pkg/observability"
	"github.com/matzehuels/shaderinc/pkg/source"
)

// Options configures a Resolver.
type Options struct {
	// MaxDepth limits include nesting. The root document is depth 0.
	// Zero means unlimited.
	MaxDepth int

	// Logger receives debug-level include events. Nil discards them.
	Logger *log.Logger
}

// Resolver flattens documents read through a source.Reader, canonicalizing
// include literals through a source.Canonicalizer.
//
// A Resolver holds no per-run state and may be shared between goroutines as
// long as its collaborators are safe for concurrent use. Each run gets its
// own graph.
type Resolver struct {
	reader   source.Reader
	canon    source.Canonicalizer
	maxDepth int
	logger   *log.Logger
}

// New creates a Resolver.
func New(r source.Reader, c source.Canonicalizer, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{
		reader:   r,
		canon:    c,
		maxDepth: opts.MaxDepth,
		logger:   logger,
	}
}

// Result is the outcome of flattening one root document.
type Result struct {
	// Root is the canonical identifier of the root document.
	Root string

	// Text is the fully flattened document. Empty on failure.
	Text string

	// Graph holds every include edge added during the run. On failure it
	// holds the edges added up to the point of failure, including the edge
	// that closed a cycle.
	Graph *depgraph.Graph

	// Files lists every document read, in first-read order, without
	// duplicates. Build tooling watches these for changes.
	Files []string

	// Includes counts the directives substituted, diamonds counted once per
	// inclusion.
	Includes int
}

// ResolvePath canonicalizes literal against base, builds a fresh graph and
// flattens the document.
//
// On error the returned Result is still non-nil when the root could be
// canonicalized, so callers can inspect the partial graph.
func (r *Resolver) ResolvePath(ctx context.Context, literal, base string) (*Result, error) {
	if err := errs.ValidateIncludeLiteral(literal); err != nil {
		return nil, errs.PathUnresolvable(literal, err)
	}
	root, err := r.canon.Canonicalize(literal, base)
	if err != nil {
		return nil, errs.PathUnresolvable(literal, err)
	}

	rn := newRun(depgraph.New())
	text, err := r.resolve(ctx, rn, root, 0)
	res := &Result{
		Root:     root,
		Graph:    rn.graph,
		Files:    rn.files,
		Includes: rn.includes,
	}
	if err != nil {
		return res, err
	}
	res.Text = text
	return res, nil
}

// Resolve flattens the document with canonical identifier id, recording
// include edges in g. The same g must be passed for the whole run; pass a new
// graph for every independent resolution.
func (r *Resolver) Resolve(ctx context.Context, id string, g *depgraph.Graph) (string, error) {
	return r.resolve(ctx, newRun(g), id, 0)
}

// run is the state of one resolution.
type run struct {
	graph    *depgraph.Graph
	files    []string
	seen     map[string]bool
	includes int
}

func newRun(g *depgraph.Graph) *run {
	return &run{graph: g, seen: make(map[string]bool)}
}

func (rn *run) track(id string) {
	if rn.seen[id] {
		return
	}
	rn.seen[id] = true
	rn.files = append(rn.files, id)
}

func (r *Resolver) resolve(ctx context.Context, rn *run, id string, depth int) (string, error) {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return "", errs.MaxDepthExceeded(id, r.maxDepth)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := r.reader.Read(ctx, id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", errs.DocumentUnreadable(id, err)
	}
	rn.track(id)

	for {
		d, ok := FindDirective(text)
		if !ok {
			return text, nil
		}

		target, err := r.target(d.Path, id)
		if err != nil {
			return "", err
		}

		rn.graph.AddEdge(id, target)
		rn.includes++
		observability.Resolve().OnInclude(ctx, id, target)
		r.logger.Debug("include", "from", id, "to", target, "depth", depth+1)

		if cycle := rn.graph.FindCycle(); cycle != nil {
			observability.Resolve().OnCycle(ctx, cycle)
			return "", errs.CircularDependency(cycle)
		}

		sub, err := r.resolve(ctx, rn, target, depth+1)
		if err != nil {
			return "", err
		}
		text = text[:d.Start] + sub + text[d.End:]
	}
}

func (r *Resolver) target(literal, base string) (string, error) {
	if err := errs.ValidateIncludeLiteral(literal); err != nil {
		return "", errs.PathUnresolvable(literal, err)
	}
	id, err := r.canon.Canonicalize(literal, base)
	if err != nil {
		return "", errs.PathUnresolvable(literal, err)
	}
	return id, nil
}
