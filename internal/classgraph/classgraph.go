// Package classgraph builds a lattice graph of a decoded class: the class
// links to each of its functions, and each function links to its declared
// return type.
package classgraph

import (
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"

	"ktmeta/internal/schema"
)

// typeParam labels a return type that names no class.
const typeParam = "<type parameter>"

// FunctionLabel is the node name of fn: its JVM key when it has one.
func FunctionLabel(fn *schema.Function) string {
	if fn.Key != "" {
		return fn.Key
	}
	if fn.Name != "" {
		return fn.Name + " (no signature)"
	}
	return "(anonymous)"
}

// ReturnLabel is the node name of fn's return type, suffixed with "?" when
// nullable.
func ReturnLabel(fn *schema.Function) string {
	name := fn.ReturnType.ClassName
	if name == "" {
		name = typeParam
	}
	if fn.ReturnType.Nullable {
		name += "?"
	}
	return name
}

// Build constructs the graph for class. Functions sharing a return type
// share its node.
func Build(class string, fns []schema.Function) *lattice.Graph {
	g := &lattice.Graph{}
	seen := make(map[string]bool)
	node := func(name string) {
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}
	node(class)
	for i := range fns {
		fn := &fns[i]
		fl := FunctionLabel(fn)
		rl := ReturnLabel(fn)
		node(fl)
		node(rl)
		g.Edges = append(g.Edges,
			lattice.Edge{Caller: class, Callee: fl},
			lattice.Edge{Caller: fl, Callee: rl},
		)
	}
	g.Dedup()
	return g
}

// DOT renders the graph of class as Graphviz source.
func DOT(class string, fns []schema.Function) (string, *lattice.Graph) {
	g := Build(class, fns)
	return render.DOT(g, class), g
}
