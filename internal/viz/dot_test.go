package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebartos/pipeliner/internal/graph"
)

func TestDOT(t *testing.T) {
	g := graph.New()
	a, err := g.AddComponent("asr", nil,
		map[string]graph.ChannelKind{"transcription": graph.Stdout}, "ebclient")
	require.NoError(t, err)
	b, err := g.AddComponent("events",
		map[string]graph.ChannelKind{"asrOutput": graph.Stdin}, nil, "online-text-flow")
	require.NoError(t, err)
	_, err = g.AddComponent("unused",
		map[string]graph.ChannelKind{"in": graph.Stdin}, nil, "cat")
	require.NoError(t, err)
	require.NoError(t, g.AddSimpleEdge(a, b, graph.LogText))

	dot := DOT(g)

	assert.True(t, strings.HasPrefix(dot, "digraph pipeline {"))
	assert.Contains(t, dot, `"asr" [style=solid];`)
	assert.Contains(t, dot, `"events" [style=solid];`)
	assert.Contains(t, dot, `"unused" [style=dashed];`)
	assert.Contains(t, dot, `"asr" -> "events" [label="transcription2asrOutput (text)"];`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestDOTDoesNotPerturbTheGraph(t *testing.T) {
	g := graph.New()
	a, err := g.AddComponent("a", nil, map[string]graph.ChannelKind{"o": graph.Stdout}, "x")
	require.NoError(t, err)
	b, err := g.AddComponent("b", map[string]graph.ChannelKind{"i": graph.Stdin}, nil, "y")
	require.NoError(t, err)
	require.NoError(t, g.AddSimpleEdge(a, b, graph.LogNone))

	before := g.Edges()
	_ = DOT(g)
	assert.Equal(t, before, g.Edges())
	assert.Len(t, g.Live(), 2)
}
