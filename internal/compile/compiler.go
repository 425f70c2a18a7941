package compile

import (
	"fmt"
	"strings"

	"github.com/ebartos/pipeliner/internal/graph"
	"github.com/ebartos/pipeliner/internal/ports"
)

// Options control the parts of the generated script that are not derived
// from the graph itself.
type Options struct {
	// LogsDir roots the per-process stderr files and per-edge log taps.
	// Empty means discard: stderr goes to /dev/null and no taps are
	// emitted.
	LogsDir string
}

// Compiler emits the process topology for one component graph. It holds no
// mutable state between compilations; every Compile call allocates from a
// fresh pool, so repeated compilations of the same graph are identical.
type Compiler struct {
	graph *graph.Graph
	opts  Options
}

// New creates a compiler for the given graph.
func New(g *graph.Graph, opts Options) *Compiler {
	return &Compiler{graph: g, opts: opts}
}

// plan is the port and label assignment for one compilation pass. Building
// it is the only step that can fail; rendering afterwards is infallible.
type plan struct {
	// order is the live subgraph in depth-first preorder; a component's
	// index here is its stderr ordinal.
	order   []*graph.Component
	ordinal map[*graph.Component]int

	// ingressPort maps every live component's ingress channel to its
	// allocated port.
	ingressPort map[*graph.Component]map[string]int

	// edges in declaration order, with the relay port and stderr ordinal
	// of each edge's relay process.
	edges     []graph.Edge
	relayPort []int
	relayOrd  []int

	// foreground is the terminal sink whose fragment keeps the script
	// alive; every other fragment is backgrounded.
	foreground *graph.Component
}

// Compile allocates ports from the pool and renders the topology script.
func (c *Compiler) Compile(pool []int) (string, error) {
	p, err := c.plan(ports.NewAllocator(pool))
	if err != nil {
		return "", err
	}
	return c.render(p), nil
}

// plan walks the live subgraph in deterministic order and allocates every
// port role: one per ingress channel of each live component, then one relay
// port per edge.
func (c *Compiler) plan(alloc *ports.Allocator) (*plan, error) {
	p := &plan{
		ordinal:     make(map[*graph.Component]int),
		ingressPort: make(map[*graph.Component]map[string]int),
		edges:       c.graph.Edges(),
	}

	p.order = c.graph.Preorder()
	for i, comp := range p.order {
		p.ordinal[comp] = i
		channels := make(map[string]int)
		for _, ch := range comp.Ingress() {
			port, err := alloc.Allocate()
			if err != nil {
				return nil, err
			}
			channels[ch.Name] = port
		}
		p.ingressPort[comp] = channels
	}

	for i := range p.edges {
		port, err := alloc.Allocate()
		if err != nil {
			return nil, err
		}
		p.relayPort = append(p.relayPort, port)
		p.relayOrd = append(p.relayOrd, len(p.order)+i)
	}

	for i := len(p.order) - 1; i >= 0; i-- {
		if len(c.graph.OutEdges(p.order[i])) == 0 {
			p.foreground = p.order[i]
			break
		}
	}
	return p, nil
}

// render emits the script: prologue, entrypoint markers, backgrounded
// component and relay fragments, and the foreground terminal sink last.
func (c *Compiler) render(p *plan) string {
	var b strings.Builder
	b.WriteString(prologue(c.opts.LogsDir))

	for _, comp := range p.order {
		for _, ch := range comp.Ingress() {
			if !c.graph.IngressFed(comp, ch.Name) {
				fmt.Fprintf(&b, "# %s entrypoint: [%d]\n", comp.Name(), p.ingressPort[comp][ch.Name])
			}
		}
	}

	var fragments []string
	for _, comp := range p.order {
		if comp != p.foreground {
			fragments = append(fragments, c.componentFragment(p, comp))
		}
		fragments = append(fragments, c.mergeFragments(p, comp)...)
	}
	for i, e := range p.edges {
		fragments = append(fragments, c.relayFragment(p, e, i))
	}
	if p.foreground != nil {
		fragments = append(fragments, c.componentFragment(p, p.foreground))
	}

	b.WriteString(strings.Join(fragments, " &\n"))
	if len(fragments) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// logsRoot is the runtime directory all log paths hang off, or empty when
// logging is discarded.
func (c *Compiler) logsRoot() string {
	if c.opts.LogsDir == "" {
		return ""
	}
	return c.opts.LogsDir + "/$DATE"
}

// errPath is the stderr destination for the process with the given ordinal.
func (c *Compiler) errPath(ordinal int) string {
	root := c.logsRoot()
	if root == "" {
		return "/dev/null"
	}
	return fmt.Sprintf("%s/%d.err", root, ordinal)
}

// componentFragment emits one live component: a listener on its primary
// ingress port, the command, and a splitter with one branch per outgoing
// edge.
func (c *Compiler) componentFragment(p *plan, comp *graph.Component) string {
	var stages []string
	errStage := -1

	if primary, ok := primaryIngress(comp); ok {
		stages = append(stages, listen(p.ingressPort[comp][primary]))
		errStage = 0
	}
	if comp.Command() != "" {
		stages = append(stages, unbuffered+comp.Command())
		errStage = len(stages) - 1
	}

	var relayPorts []int
	for i, e := range p.edges {
		if e.Src == comp {
			relayPorts = append(relayPorts, p.relayPort[i])
		}
	}
	if len(relayPorts) > 0 {
		stages = append(stages, splitter(relayPorts))
	}
	if errStage == -1 {
		errStage = 0
	}
	stages[errStage] += " 2>" + c.errPath(p.ordinal[comp])

	return strings.Join(stages, " | ")
}

// mergeFragments bridges every non-primary ingress channel of a component
// into its primary port, so data delivered to any declared input reaches the
// command's single stdin stream.
func (c *Compiler) mergeFragments(p *plan, comp *graph.Component) []string {
	primary, ok := primaryIngress(comp)
	if !ok {
		return nil
	}
	var fragments []string
	for _, ch := range comp.Ingress() {
		if ch.Name == primary {
			continue
		}
		fragments = append(fragments,
			listen(p.ingressPort[comp][ch.Name])+" | "+probeDial(p.ingressPort[comp][primary]))
	}
	return fragments
}

// relayFragment emits the per-edge intermediary: listen on the relay port,
// optionally tap the stream into a log file, then probe-dial the destination
// component's ingress port and forward.
func (c *Compiler) relayFragment(p *plan, e graph.Edge, i int) string {
	stages := []string{listen(p.relayPort[i]) + " 2>" + c.errPath(p.relayOrd[i])}
	if root := c.logsRoot(); root != "" && e.Log != graph.LogNone {
		stages = append(stages, tap(root+"/"+e.Name()+e.Log.Suffix(), e.Log))
	}
	stages = append(stages, probeDial(p.ingressPort[e.Dst][e.Input]))
	return strings.Join(stages, " | ")
}

// primaryIngress picks the ingress channel piped into the command's stdin:
// the stdin-kind channel when declared, otherwise the first channel in name
// order.
func primaryIngress(comp *graph.Component) (string, bool) {
	ingress := comp.Ingress()
	if len(ingress) == 0 {
		return "", false
	}
	for _, ch := range ingress {
		if ch.Kind == graph.Stdin {
			return ch.Name, true
		}
	}
	return ingress[0].Name, true
}
