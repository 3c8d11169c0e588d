package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/shaderinc/pkg/depgraph"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
)

// CheckResult is the outcome of resolving one root during a batch check.
type CheckResult struct {
	Path      string
	Root      string
	Documents int
	Cached    bool
	Err       error
	Cycle     depgraph.Cycle
}

// OK reports whether the root resolved.
func (c CheckResult) OK() bool { return c.Err == nil }

// Check resolves every entry of opts independently, each with its own
// include graph, running up to limit resolutions at once (GOMAXPROCS when
// limit <= 0). Results are returned in input order. Resolution failures are
// reported per entry; only context cancellation aborts the batch.
func (r *Runner) Check(ctx context.Context, opts []Options, limit int) ([]CheckResult, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]CheckResult, len(opts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, o := range opts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, hit, err := r.ResolveWithCacheInfo(gctx, o)
			cr := CheckResult{Path: o.Path, Cached: hit, Err: err}
			if res != nil {
				cr.Root = res.Root
				cr.Documents = len(res.Files)
			}
			if err != nil {
				cr.Cycle = errs.CyclePath(err)
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
			}
			results[i] = cr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Failed counts the failed results.
func Failed(results []CheckResult) int {
	n := 0
	for _, r := range results {
		if !r.OK() {
			n++
		}
	}
	return n
}
