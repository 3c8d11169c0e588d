package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/shaderinc/pkg/cache"
	gio "github.com/matzehuels/shaderinc/pkg/io"
	"github.com/matzehuels/shaderinc/pkg/observability"
	"github.com/matzehuels/shaderinc/pkg/render"
)

// RenderWithCacheInfo exports res.Graph in every format of opts.Formats and
// reports whether all of them came from cache. It works on partial results
// too, highlighting res.Cycle.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if res == nil || res.Graph == nil {
		return nil, false, fmt.Errorf("render: no include graph")
	}

	ropts := render.Options{Root: res.Root, Cycle: res.Cycle, Base: opts.labelBase()}
	graphData, err := gio.MarshalJSON(res.Graph, gio.Meta{Root: res.Root, Cycle: res.Cycle})
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphHash, cache.ArtifactKeyOpts{Format: format, Base: ropts.Base})
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		allCached = false

		data, err := render.Render(ctx, res.Graph, format, ropts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return artifacts, allCached && len(opts.Formats) > 0, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}
