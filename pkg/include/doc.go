// Package include flattens #include directives in shader sources.
//
// # Directives
//
// A directive is any match of
//
//	#include\s+"(?P<file>.*)"
//
// The path is everything between the first quote after #include and the
// last quote on the same line; there is no escaping. Directives are resolved
// one at a time in textual order: the first match is replaced by the fully
// flattened text of its target, then the document is scanned again from the
// top until no directive remains.
//
// # Cycles
//
// Each directive adds an edge to a [depgraph.Graph] shared by the whole run,
// and the graph is checked for a cycle immediately. A cycle aborts the run
// with a CIRCULAR_DEPENDENCY error carrying the chain, e.g.
//
//	CIRCULAR_DEPENDENCY: circular dependency detected: /s/a.glsl -> /s/b.glsl -> /s/a.glsl
//
// Including the same document from several places (a diamond) is fine; each
// inclusion is flattened independently.
//
// # Usage
//
//	store, _ := source.NewFS("shaders", false)
//	r := include.New(store, store, include.Options{})
//	res, err := r.ResolvePath(ctx, "main.frag", "")
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Text)
package include
