// Package io provides JSON import and export for include graphs.
//
// The format is used by `shaderinc graph --format json`, by the HTTP API and
// by the output cache, which stores the graph of every cached resolution so
// that a cache hit can still answer graph queries.
//
// # JSON Format
//
//	{
//	  "root": "/src/main.frag",
//	  "nodes": [
//	    {"id": "/src/main.frag"},
//	    {"id": "/src/lib/light.glsl", "cycle": true},
//	    {"id": "/src/lib/brdf.glsl", "cycle": true}
//	  ],
//	  "edges": [
//	    {"from": "/src/main.frag", "to": "/src/lib/light.glsl"},
//	    {"from": "/src/lib/light.glsl", "to": "/src/lib/brdf.glsl"},
//	    {"from": "/src/lib/brdf.glsl", "to": "/src/lib/light.glsl", "cycle": true}
//	  ],
//	  "cycle": ["/src/lib/light.glsl", "/src/lib/brdf.glsl", "/src/lib/light.glsl"]
//	}
//
// Nodes and edges appear in insertion order, so an exported graph re-imports
// with the same traversal order and reports the same cycle.
//
// "root" and "cycle" are optional. The cycle flags on nodes and edges are
// derived from "cycle" on export and ignored on import.
package io
