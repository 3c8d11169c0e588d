// Package render exports include graphs for humans and tools.
//
// Four formats are supported:
//
//   - dot: Graphviz source, see [ToDOT]
//   - svg: the DOT source laid out by the embedded Graphviz, see [RenderSVG]
//   - json: the [io] interchange format
//   - tree: an indented terminal tree drawn with lipgloss, see [ToTree]
//
// When a cycle is passed in [Options], the vertices and edges on the cycle
// are highlighted in every format. This is how the CLI shows the chain that
// made a resolution fail.
//
// Document identifiers are usually absolute paths. Set [Options.Base] to
// print them relative to a project directory.
package render
