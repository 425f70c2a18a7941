// Package viz renders a component graph in Graphviz DOT form. It is a pure
// consumer of the graph's read-only query surface and never touches port
// allocation or compiler state, so rendering cannot perturb a compilation.
package viz

import (
	"fmt"
	"strings"

	"github.com/ebartos/pipeliner/internal/graph"
)

// DOT renders the graph as a Graphviz digraph. Live components are drawn
// solid, dead ones dashed; edges are labeled with their channel pair and
// logging mode.
func DOT(g *graph.Graph) string {
	live := make(map[*graph.Component]bool)
	for _, c := range g.Live() {
		live[c] = true
	}

	var b strings.Builder
	b.WriteString("digraph pipeline {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")
	for _, c := range g.Components() {
		style := "solid"
		if !live[c] {
			style = "dashed"
		}
		fmt.Fprintf(&b, "  %s [style=%s];\n", quote(c.Name()), style)
	}
	for _, e := range g.Edges() {
		label := e.Name()
		if e.Log != graph.LogNone {
			label += " (" + e.Log.String() + ")"
		}
		fmt.Fprintf(&b, "  %s -> %s [label=%s];\n",
			quote(e.Src.Name()), quote(e.Dst.Name()), quote(label))
	}
	b.WriteString("}\n")
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
