package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/shaderinc/pkg/cache"
	errs "github.com/matzehuels/shaderinc/pkg/errors"
	"github.com/matzehuels/shaderinc/pkg/include"
	gio "github.com/matzehuels/shaderinc/pkg/io"
	"github.com/matzehuels/shaderinc/pkg/observability"
	"github.com/matzehuels/shaderinc/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options; every run gets its own include graph.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// OutputTTL overrides cache.OutputTTL for flattened documents when set.
	OutputTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute resolves opts.Path and renders the requested graph formats.
//
// When resolution fails the returned Result is non-nil whenever the root
// document could be located: it carries the partial include graph and, for
// circular includes, the cycle. Text is empty in that case.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.RunID[:8])

	start := time.Now()
	out, hit, err := r.ResolveWithCacheInfo(ctx, opts)
	result.Stats.ResolveTime = time.Since(start)
	if out != nil {
		result.Root = out.Root
		result.Graph = out.Graph
		result.Files = out.Files
		result.Stats.Documents = len(out.Files)
		result.Stats.Includes = out.Includes
		result.Stats.EdgeCount = out.Graph.EdgeCount()
	}
	result.CacheInfo.OutputHit = hit
	if err != nil {
		result.Cycle = errs.CyclePath(err)
		if result.Graph == nil {
			return nil, err
		}
		logger.Debug("resolution failed", "root", result.Root, "err", err)
		return result, err
	}
	result.Text = out.Text

	logger.Info("resolved includes",
		"root", result.Root,
		"documents", result.Stats.Documents,
		"includes", result.Stats.Includes,
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered include graph",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveWithCacheInfo flattens opts.Path through the output cache and
// reports whether the cache was hit.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, opts Options) (*include.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid options")
	}
	store, storeID, err := opts.openStore()
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInvalidPath, err, "open source root")
	}

	hashing := newHashingReader(store)
	links := newRecordingCanonicalizer(store)
	resolver := include.New(hashing, links, include.Options{
		MaxDepth: opts.resolverDepth(),
		Logger:   opts.Logger,
	})

	// The key needs the canonical root, so resolve the literal up front.
	// Errors are left to ResolvePath, which reports them the same way.
	root, rootErr := store.Canonicalize(opts.Path, opts.Base)
	cacheable := storeID != "" && rootErr == nil
	var cacheKey string
	if cacheable {
		cacheKey = r.Keyer.OutputKey(root, opts.OutputKeyOpts(storeID))
		if !opts.Refresh {
			if res, ok := r.lookup(ctx, store, cacheKey); ok {
				return res, true, nil
			}
		}
	}

	observability.Resolve().OnResolveStart(ctx, opts.Path)
	start := time.Now()
	res, err := resolver.ResolvePath(ctx, opts.Path, opts.Base)
	docs := 0
	if res != nil {
		docs = len(res.Files)
	}
	observability.Resolve().OnResolveComplete(ctx, opts.Path, docs, time.Since(start), err)
	if err != nil {
		return res, false, err
	}

	if cacheable {
		r.store(ctx, cacheKey, res, hashing.hashes, links.links)
	}
	return res, false, nil
}

// Resolve is a convenience wrapper that discards the cache hit info.
func (r *Runner) Resolve(ctx context.Context, opts Options) (*include.Result, error) {
	res, _, err := r.ResolveWithCacheInfo(ctx, opts)
	return res, err
}

func (r *Runner) outputTTL() time.Duration {
	if r.OutputTTL > 0 {
		return r.OutputTTL
	}
	return cache.OutputTTL
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// =============================================================================
// Output cache
// =============================================================================

// Key types reported to observability cache hooks.
const (
	keyTypeOutput   = "output"
	keyTypeArtifact = "artifact"
)

// cachedOutput is the cached form of a successful resolution.
type cachedOutput struct {
	Root     string          `json:"root"`
	Text     string          `json:"text"`
	Files    []fileHash      `json:"files"`
	Includes int             `json:"includes"`
	Links    []link          `json:"links"`
	Graph    json.RawMessage `json:"graph"`
}

// link records that Literal, written in the document Base, named Target.
// The root literal is recorded with the run's base.
type link struct {
	Base    string `json:"base"`
	Literal string `json:"literal"`
	Target  string `json:"target"`
}

type fileHash struct {
	ID   string `json:"id"`
	Hash string `json:"sha256"`
}

func (r *Runner) lookup(ctx context.Context, store source.Store, key string) (*include.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeOutput)
		return nil, false
	}

	var entry cachedOutput
	if err := json.Unmarshal(data, &entry); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeOutput)
		return nil, false
	}
	if entry.Links == nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeOutput)
		return nil, false
	}
	if stale := staleLink(store, entry.Links); stale != nil {
		r.Logger.Debug("cached include retargeted", "from", stale.Base, "literal", stale.Literal, "was", stale.Target)
		observability.Cache().OnCacheMiss(ctx, keyTypeOutput)
		return nil, false
	}
	if stale := staleFile(ctx, store, entry.Files); stale != "" {
		r.Logger.Debug("cached output is stale", "file", stale)
		observability.Cache().OnCacheMiss(ctx, keyTypeOutput)
		return nil, false
	}
	g, _, err := gio.UnmarshalJSON(entry.Graph)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeOutput)
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, keyTypeOutput)
	files := make([]string, len(entry.Files))
	for i, f := range entry.Files {
		files[i] = f.ID
	}
	return &include.Result{
		Root:     entry.Root,
		Text:     entry.Text,
		Graph:    g,
		Files:    files,
		Includes: entry.Includes,
	}, true
}

// staleFile returns the first recorded file that changed or disappeared.
func staleFile(ctx context.Context, store source.Reader, files []fileHash) string {
	for _, f := range files {
		text, err := store.Read(ctx, f.ID)
		if err != nil || cache.HashString(text) != f.Hash {
			return f.ID
		}
	}
	return ""
}

// staleLink returns the first recorded link whose literal no longer
// canonicalizes to the same target, for example a retargeted symlink.
func staleLink(c source.Canonicalizer, links []link) *link {
	for i := range links {
		l := &links[i]
		target, err := c.Canonicalize(l.Literal, l.Base)
		if err != nil || target != l.Target {
			return l
		}
	}
	return nil
}

func (r *Runner) store(ctx context.Context, key string, res *include.Result, hashes map[string]string, links []link) {
	graph, err := gio.MarshalJSON(res.Graph, gio.Meta{Root: res.Root})
	if err != nil {
		return
	}
	entry := cachedOutput{
		Root:     res.Root,
		Text:     res.Text,
		Files:    make([]fileHash, 0, len(res.Files)),
		Includes: res.Includes,
		Links:    links,
		Graph:    graph,
	}
	if entry.Links == nil {
		entry.Links = []link{}
	}
	for _, id := range res.Files {
		entry.Files = append(entry.Files, fileHash{ID: id, Hash: hashes[id]})
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.outputTTL()); err != nil {
		if !errors.Is(err, context.Canceled) {
			r.Logger.Warn("cache write failed", "err", err)
		}
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeOutput, len(data))
}

// hashingReader records the hash of every document it returns so the
// cache entry reflects exactly the content that was flattened.
type hashingReader struct {
	source.Reader
	hashes map[string]string
}

func newHashingReader(r source.Reader) *hashingReader {
	return &hashingReader{Reader: r, hashes: make(map[string]string)}
}

func (h *hashingReader) Read(ctx context.Context, id string) (string, error) {
	text, err := h.Reader.Read(ctx, id)
	if err == nil {
		h.hashes[id] = cache.HashString(text)
	}
	return text, err
}

// recordingCanonicalizer records every successful canonicalization so the
// cache entry can verify later that each literal still names the same file.
type recordingCanonicalizer struct {
	source.Canonicalizer
	seen  map[link]bool
	links []link
}

func newRecordingCanonicalizer(c source.Canonicalizer) *recordingCanonicalizer {
	return &recordingCanonicalizer{Canonicalizer: c, seen: make(map[link]bool)}
}

func (rc *recordingCanonicalizer) Canonicalize(literal, base string) (string, error) {
	target, err := rc.Canonicalizer.Canonicalize(literal, base)
	if err != nil {
		return "", err
	}
	l := link{Base: base, Literal: literal, Target: target}
	if !rc.seen[l] {
		rc.seen[l] = true
		rc.links = append(rc.links, l)
	}
	return target, nil
}
