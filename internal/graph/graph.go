package graph

import (
	"fmt"
	"sort"
)

// Component is a named unit of processing. The command consumes whatever
// arrives on the ingress side and produces the egress side; an empty command
// is a pure source or sink. Components are created through
// Graph.AddComponent and are immutable.
type Component struct {
	name    string
	command string
	ingress []Channel // sorted by channel name
	egress  []Channel // sorted by channel name
}

// Name returns the component's unique name.
func (c *Component) Name() string { return c.name }

// Command returns the component's shell command. May be empty.
func (c *Component) Command() string { return c.command }

// Ingress returns the component's input channels in name order.
func (c *Component) Ingress() []Channel {
	return append([]Channel(nil), c.ingress...)
}

// Egress returns the component's output channels in name order.
func (c *Component) Egress() []Channel {
	return append([]Channel(nil), c.egress...)
}

func (c *Component) hasIngress(name string) bool {
	for _, ch := range c.ingress {
		if ch.Name == name {
			return true
		}
	}
	return false
}

func (c *Component) hasEgress(name string) bool {
	for _, ch := range c.egress {
		if ch.Name == name {
			return true
		}
	}
	return false
}

// Edge is a declared data-flow connection from one component's egress channel
// to another component's ingress channel.
type Edge struct {
	Src    *Component
	Output string
	Dst    *Component
	Input  string
	Log    LogMode
}

// Name returns the edge's log-file stem, "<output>2<input>".
func (e Edge) Name() string {
	return e.Output + "2" + e.Input
}

// Graph is the container of all components and edges. The zero value is not
// usable; call New.
type Graph struct {
	components []*Component // declaration order
	byName     map[string]*Component
	edges      []Edge // declaration order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		byName: make(map[string]*Component),
	}
}

// AddComponent declares a component and returns its handle. Channel maps are
// validated at this boundary: ingress channels must be stdin or socket,
// egress channels must be stdout or socket, and a component can have at most
// one stdin and one stdout channel.
func (g *Graph) AddComponent(name string, ingress, egress map[string]ChannelKind, command string) (*Component, error) {
	if _, ok := g.byName[name]; ok {
		return nil, &DuplicateNameError{Name: name}
	}

	in, err := buildChannels(name, ingress, DirectionInput)
	if err != nil {
		return nil, err
	}
	out, err := buildChannels(name, egress, DirectionOutput)
	if err != nil {
		return nil, err
	}

	c := &Component{
		name:    name,
		command: command,
		ingress: in,
		egress:  out,
	}
	g.components = append(g.components, c)
	g.byName[name] = c
	return c, nil
}

// buildChannels validates a declared channel map and returns it as a slice
// sorted by name, so every later pass iterates channels deterministically.
func buildChannels(component string, decls map[string]ChannelKind, dir Direction) ([]Channel, error) {
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	channels := make([]Channel, 0, len(decls))
	standard := ""
	for _, name := range names {
		kind := decls[name]
		switch {
		case kind == Socket:
			// Valid on either side.
		case dir == DirectionInput && kind == Stdin:
		case dir == DirectionOutput && kind == Stdout:
		default:
			return nil, &InvalidChannelError{
				Component: component,
				Channel:   name,
				Reason:    fmt.Sprintf("kind %s is not valid for an %s", kind, dir),
			}
		}
		if kind == Stdin || kind == Stdout {
			if standard != "" {
				return nil, &InvalidChannelError{
					Component: component,
					Channel:   name,
					Reason:    fmt.Sprintf("only one %s channel allowed, already declared on %s", kind, standard),
				}
			}
			standard = name
		}
		channels = append(channels, Channel{Name: name, Kind: kind})
	}
	return channels, nil
}

// AddEdge declares a data-flow edge from src's egress channel named output to
// dst's ingress channel named input. The edge is rejected if either channel
// does not exist or if inserting it would make the graph cyclic.
func (g *Graph) AddEdge(src *Component, output string, dst *Component, input string, mode LogMode) error {
	if err := g.owns(src); err != nil {
		return err
	}
	if err := g.owns(dst); err != nil {
		return err
	}
	if !src.hasEgress(output) {
		return &UnknownChannelError{Component: src.name, Channel: output, Direction: DirectionOutput}
	}
	if !dst.hasIngress(input) {
		return &UnknownChannelError{Component: dst.name, Channel: input, Direction: DirectionInput}
	}
	// dst must not already reach src, or this edge closes a cycle. Self
	// edges are the trivial case of the same check.
	if src == dst || g.reaches(dst, src) {
		return &CycleError{From: src.name, To: dst.name}
	}

	g.edges = append(g.edges, Edge{Src: src, Output: output, Dst: dst, Input: input, Log: mode})
	return nil
}

// AddSimpleEdge is sugar for AddEdge when both endpoints have exactly one
// channel on the relevant side.
func (g *Graph) AddSimpleEdge(src, dst *Component, mode LogMode) error {
	if len(src.egress) != 1 {
		return &AmbiguousEdgeError{Component: src.name, Direction: DirectionOutput, Count: len(src.egress)}
	}
	if len(dst.ingress) != 1 {
		return &AmbiguousEdgeError{Component: dst.name, Direction: DirectionInput, Count: len(dst.ingress)}
	}
	return g.AddEdge(src, src.egress[0].Name, dst, dst.ingress[0].Name, mode)
}

// owns verifies that the handle came from this graph, not another one.
func (g *Graph) owns(c *Component) error {
	if c == nil {
		return fmt.Errorf("nil component handle")
	}
	if g.byName[c.name] != c {
		return fmt.Errorf("component %s does not belong to this graph", c.name)
	}
	return nil
}

// reaches reports whether to is reachable from from by following edges
// forward.
func (g *Graph) reaches(from, to *Component) bool {
	visited := make(map[*Component]bool)
	var visit func(c *Component) bool
	visit = func(c *Component) bool {
		if c == to {
			return true
		}
		if visited[c] {
			return false
		}
		visited[c] = true
		for _, e := range g.edges {
			if e.Src == c && visit(e.Dst) {
				return true
			}
		}
		return false
	}
	return visit(from)
}

// Components returns all declared components in declaration order, dead ones
// included.
func (g *Graph) Components() []*Component {
	return append([]*Component(nil), g.components...)
}

// Edges returns all declared edges in declaration order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Live returns, in declaration order, the components touched by at least one
// edge. A component with degree zero contributes nothing observable and is
// excluded from compilation entirely.
func (g *Graph) Live() []*Component {
	touched := make(map[*Component]bool, len(g.components))
	for _, e := range g.edges {
		touched[e.Src] = true
		touched[e.Dst] = true
	}
	var live []*Component
	for _, c := range g.components {
		if touched[c] {
			live = append(live, c)
		}
	}
	return live
}

// OutEdges returns c's outgoing edges in declaration order.
func (g *Graph) OutEdges(c *Component) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Src == c {
			out = append(out, e)
		}
	}
	return out
}

// InDegree returns the number of edges arriving at c across all of its
// ingress channels.
func (g *Graph) InDegree(c *Component) int {
	n := 0
	for _, e := range g.edges {
		if e.Dst == c {
			n++
		}
	}
	return n
}

// IngressFed reports whether some edge delivers into the named ingress
// channel of c. Channels that are not fed by any edge are externally fed
// entrypoints.
func (g *Graph) IngressFed(c *Component, input string) bool {
	for _, e := range g.edges {
		if e.Dst == c && e.Input == input {
			return true
		}
	}
	return false
}
