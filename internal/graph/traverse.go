package graph

// Preorder returns the live components in depth-first preorder. Roots are the
// live components with no incoming edges, taken in declaration order, and a
// node's children are visited in edge declaration order. The result is a pure
// function of the declared component and edge order, which makes it the
// deterministic basis for stderr-label assignment during compilation.
func (g *Graph) Preorder() []*Component {
	live := make(map[*Component]bool)
	for _, c := range g.Live() {
		live[c] = true
	}

	visited := make(map[*Component]bool, len(live))
	order := make([]*Component, 0, len(live))

	var visit func(c *Component)
	visit = func(c *Component) {
		if visited[c] {
			return
		}
		visited[c] = true
		order = append(order, c)
		for _, e := range g.edges {
			if e.Src == c {
				visit(e.Dst)
			}
		}
	}

	// Every live component sits on an edge, and following incoming edges
	// backwards through a finite acyclic graph always ends at a root, so
	// starting from the roots covers the whole live subgraph.
	for _, c := range g.components {
		if live[c] && g.InDegree(c) == 0 {
			visit(c)
		}
	}
	return order
}
