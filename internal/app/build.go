package app

import (
	"fmt"
	"strings"

	"github.com/ebartos/pipeliner/internal/config"
	"github.com/ebartos/pipeliner/internal/graph"
)

// buildGraph turns the format-agnostic pipeline model into a validated
// component graph. All graph-construction errors surface here, before any
// port is allocated.
func buildGraph(p *config.Pipeline) (*graph.Graph, error) {
	g := graph.New()
	handles := make(map[string]*graph.Component, len(p.Components))

	for _, comp := range p.Components {
		ingress, err := channelMap(comp.Name, comp.Inputs)
		if err != nil {
			return nil, err
		}
		egress, err := channelMap(comp.Name, comp.Outputs)
		if err != nil {
			return nil, err
		}
		h, err := g.AddComponent(comp.Name, ingress, egress, comp.Command)
		if err != nil {
			return nil, err
		}
		handles[comp.Name] = h
	}

	for _, e := range p.Edges {
		if err := addEdge(g, handles, e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func channelMap(component string, decls []*config.Channel) (map[string]graph.ChannelKind, error) {
	m := make(map[string]graph.ChannelKind, len(decls))
	for _, d := range decls {
		kind, err := graph.ParseChannelKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("component %s, channel %s: %w", component, d.Name, err)
		}
		if _, ok := m[d.Name]; ok {
			return nil, fmt.Errorf("component %s declares channel %s twice", component, d.Name)
		}
		m[d.Name] = kind
	}
	return m, nil
}

func addEdge(g *graph.Graph, handles map[string]*graph.Component, e *config.Edge) error {
	mode, err := graph.ParseLogMode(e.Log)
	if err != nil {
		return fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
	}

	srcName, srcChannel := splitEndpoint(e.From)
	dstName, dstChannel := splitEndpoint(e.To)
	src, ok := handles[srcName]
	if !ok {
		return fmt.Errorf("edge references unknown component: %s", srcName)
	}
	dst, ok := handles[dstName]
	if !ok {
		return fmt.Errorf("edge references unknown component: %s", dstName)
	}

	if srcChannel == "" && dstChannel == "" {
		return g.AddSimpleEdge(src, dst, mode)
	}
	if srcChannel == "" {
		if srcChannel, err = soleChannel(src.Name(), src.Egress(), graph.DirectionOutput); err != nil {
			return err
		}
	}
	if dstChannel == "" {
		if dstChannel, err = soleChannel(dst.Name(), dst.Ingress(), graph.DirectionInput); err != nil {
			return err
		}
	}
	return g.AddEdge(src, srcChannel, dst, dstChannel, mode)
}

// splitEndpoint parses "component.channel"; the channel part is optional.
func splitEndpoint(endpoint string) (component, channel string) {
	component, channel, _ = strings.Cut(endpoint, ".")
	return component, channel
}

func soleChannel(component string, channels []graph.Channel, dir graph.Direction) (string, error) {
	if len(channels) != 1 {
		return "", fmt.Errorf("component %s has %d %ss, name one explicitly", component, len(channels), dir)
	}
	return channels[0].Name, nil
}
