// Package pkg provides the shaderinc libraries.
//
// # Overview
//
// shaderinc flattens `#include "file"` directives in shader sources into a
// single document and rejects circular include chains. The pkg directory is
// organized as:
//
//  1. [depgraph] - the per-run include graph and its cycle finder
//  2. [include] - directive scanning and recursive substitution
//  3. [source] - document storage and path canonicalization
//  4. [pipeline] - orchestration with output caching
//  5. [render] and [io] - include-graph export (DOT, SVG, JSON, tree)
//  6. [cache], [config], [errors], [observability], [buildinfo] - infrastructure
//
// # Architecture
//
//	root literal
//	     ↓
//	[source] canonicalize + read
//	     ↓
//	[include] find first directive → add edge to [depgraph] → check cycle → recurse → splice
//	     ↓
//	flattened text (+ include graph, files read)
//
// # Quick Start
//
//	fs, _ := source.NewFS("shaders", true)
//	res, err := include.New(fs, fs, include.Options{}).ResolvePath(ctx, "main.frag", "")
//	if err != nil {
//	    // errors.CyclePath(err) holds the chain for circular includes
//	}
//	fmt.Print(res.Text)
package pkg
