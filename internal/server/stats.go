package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/matzehuels/shaderinc/pkg/observability"
)

// Stats counts resolution and cache events. It implements both
// observability hook interfaces; register it with [Stats.Register].
type Stats struct {
	runs        atomic.Int64
	failures    atomic.Int64
	documents   atomic.Int64
	includes    atomic.Int64
	cycles      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheWrites atomic.Int64
	resolveNS   atomic.Int64
}

// Register installs s as the process-wide resolve and cache hooks.
func (s *Stats) Register() {
	observability.SetResolveHooks(s)
	observability.SetCacheHooks(s)
}

func (s *Stats) OnResolveStart(context.Context, string) {}

func (s *Stats) OnResolveComplete(_ context.Context, _ string, documents int, d time.Duration, err error) {
	s.runs.Add(1)
	if err != nil {
		s.failures.Add(1)
	}
	s.documents.Add(int64(documents))
	s.resolveNS.Add(int64(d))
}

func (s *Stats) OnInclude(context.Context, string, string) { s.includes.Add(1) }
func (s *Stats) OnCycle(context.Context, []string)         { s.cycles.Add(1) }

func (s *Stats) OnCacheHit(context.Context, string)      { s.cacheHits.Add(1) }
func (s *Stats) OnCacheMiss(context.Context, string)     { s.cacheMisses.Add(1) }
func (s *Stats) OnCacheSet(context.Context, string, int) { s.cacheWrites.Add(1) }

type statsSnapshot struct {
	Runs        int64 `json:"runs"`
	Failures    int64 `json:"failures"`
	Documents   int64 `json:"documents"`
	Includes    int64 `json:"includes"`
	Cycles      int64 `json:"cycles"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	CacheWrites int64 `json:"cache_writes"`
	ResolveMS   int64 `json:"resolve_ms"`
}

func (s *Stats) snapshot() statsSnapshot {
	return statsSnapshot{
		Runs:        s.runs.Load(),
		Failures:    s.failures.Load(),
		Documents:   s.documents.Load(),
		Includes:    s.includes.Load(),
		Cycles:      s.cycles.Load(),
		CacheHits:   s.cacheHits.Load(),
		CacheMisses: s.cacheMisses.Load(),
		CacheWrites: s.cacheWrites.Load(),
		ResolveMS:   time.Duration(s.resolveNS.Load()).Milliseconds(),
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.snapshot())
}

var (
	_ observability.ResolveHooks = (*Stats)(nil)
	_ observability.CacheHooks   = (*Stats)(nil)
)
