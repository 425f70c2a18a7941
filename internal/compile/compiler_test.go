package compile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebartos/pipeliner/internal/graph"
	"github.com/ebartos/pipeliner/internal/ports"
)

// simplePipeline is the canonical two-component topology: A pipes X into a
// socket output consumed by B's command Y, connected with default (text)
// logging.
func simplePipeline(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	a, err := g.AddComponent("A",
		map[string]graph.ChannelKind{"in": graph.Stdin},
		map[string]graph.ChannelKind{"o": graph.Socket}, "X")
	require.NoError(t, err)
	b, err := g.AddComponent("B",
		map[string]graph.ChannelKind{"i": graph.Socket}, nil, "Y")
	require.NoError(t, err)
	require.NoError(t, g.AddSimpleEdge(a, b, graph.LogText))
	return g
}

func TestCompileSimplePipeline(t *testing.T) {
	g := simplePipeline(t)
	script, err := New(g, Options{}).Compile([]int{9100, 9101, 9102})
	require.NoError(t, err)

	want := `handler()
  {
      pkill -TERM -P $$
  }
trap handler SIGINT

# A entrypoint: [9100]
nc -lk localhost 9100 | stdbuf -oL X 2>/dev/null | tee >(while ! nc -z localhost 9102; do sleep 1; done; nc localhost 9102) 1>/dev/null &
nc -lk localhost 9102 2>/dev/null | (while ! nc -z localhost 9101; do sleep 1; done; nc localhost 9101) &
nc -lk localhost 9101 | stdbuf -oL Y 2>/dev/null
`
	assert.Equal(t, want, script)
}

func TestCompileWithLogsDir(t *testing.T) {
	g := simplePipeline(t)
	script, err := New(g, Options{LogsDir: "/pwd/logs"}).Compile([]int{9100, 9101, 9102})
	require.NoError(t, err)

	assert.Contains(t, script, "DATE=$(date '+%Y-%m-%d-%H:%M:%S')\n")
	assert.Contains(t, script, "mkdir -p /pwd/logs/$DATE\n")

	// Stderr ordinals: A=0 and B=1 in preorder, the relay continues at 2.
	assert.Contains(t, script, "stdbuf -oL X 2>/pwd/logs/$DATE/0.err")
	assert.Contains(t, script, "stdbuf -oL Y 2>/pwd/logs/$DATE/1.err")
	assert.Contains(t, script, "nc -lk localhost 9102 2>/pwd/logs/$DATE/2.err")

	// Default text logging taps the relay with a per-line timestamp.
	assert.Contains(t, script,
		`tee >(while IFS= read -r line; do echo "$(date '+%Y-%m-%d-%H:%M:%S') $line"; done >/pwd/logs/$DATE/o2i.log)`)
}

func TestCompileLogModes(t *testing.T) {
	build := func(t *testing.T, mode graph.LogMode) string {
		g := graph.New()
		a, err := g.AddComponent("A", nil,
			map[string]graph.ChannelKind{"o": graph.Stdout}, "X")
		require.NoError(t, err)
		b, err := g.AddComponent("B",
			map[string]graph.ChannelKind{"i": graph.Stdin}, nil, "Y")
		require.NoError(t, err)
		require.NoError(t, g.AddSimpleEdge(a, b, mode))
		script, err := New(g, Options{LogsDir: "/logs"}).Compile([]int{9100, 9101})
		require.NoError(t, err)
		return script
	}

	t.Run("binary copies bytes verbatim to .data", func(t *testing.T) {
		script := build(t, graph.LogBinary)
		assert.Contains(t, script, "| tee /logs/$DATE/o2i.data |")
		assert.NotContains(t, script, "IFS= read")
	})

	t.Run("text timestamps every row into .log", func(t *testing.T) {
		script := build(t, graph.LogText)
		assert.Contains(t, script, "done >/logs/$DATE/o2i.log)")
	})

	t.Run("none taps nothing", func(t *testing.T) {
		script := build(t, graph.LogNone)
		assert.NotContains(t, script, "o2i")
	})
}

func TestCompilePortAccounting(t *testing.T) {
	t.Run("needs exactly one port per ingress plus one per edge", func(t *testing.T) {
		g := simplePipeline(t)
		_, err := New(g, Options{}).Compile([]int{9100, 9101, 9102})
		assert.NoError(t, err)
	})

	t.Run("one port short fails deterministically", func(t *testing.T) {
		g := simplePipeline(t)
		for range 3 {
			_, err := New(g, Options{}).Compile([]int{9100, 9101})
			var exhausted *ports.PoolExhaustedError
			require.ErrorAs(t, err, &exhausted)
		}
	})
}

func TestCompileDeadComponentElimination(t *testing.T) {
	g := simplePipeline(t)
	_, err := g.AddComponent("ghost",
		map[string]graph.ChannelKind{"in": graph.Stdin}, nil, "cat")
	require.NoError(t, err)

	script, err := New(g, Options{}).Compile([]int{9100, 9101, 9102})
	require.NoError(t, err)

	assert.NotContains(t, script, "ghost")
	assert.NotContains(t, script, "cat")
	// The live components still compile to exactly one listener each.
	assert.Equal(t, 1, strings.Count(script, "stdbuf -oL X"))
	assert.Equal(t, 1, strings.Count(script, "stdbuf -oL Y"))
}

func TestCompileFanOut(t *testing.T) {
	g := graph.New()
	a, err := g.AddComponent("A",
		map[string]graph.ChannelKind{"in": graph.Stdin},
		map[string]graph.ChannelKind{"o": graph.Socket}, "X")
	require.NoError(t, err)
	b, err := g.AddComponent("B",
		map[string]graph.ChannelKind{"i": graph.Socket}, nil, "Y")
	require.NoError(t, err)
	c, err := g.AddComponent("C",
		map[string]graph.ChannelKind{"i": graph.Socket}, nil, "Z")
	require.NoError(t, err)
	require.NoError(t, g.AddSimpleEdge(a, b, graph.LogNone))
	require.NoError(t, g.AddSimpleEdge(a, c, graph.LogNone))

	script, err := New(g, Options{}).Compile([]int{9100, 9101, 9102, 9103, 9104})
	require.NoError(t, err)

	// Preorder A,B,C allocates ingress ports first; relays take 9103, 9104.
	assert.Contains(t, script,
		"tee >(while ! nc -z localhost 9103; do sleep 1; done; nc localhost 9103) "+
			">(while ! nc -z localhost 9104; do sleep 1; done; nc localhost 9104) 1>/dev/null")

	// One independent relay per edge: the first forwards into B, the
	// second into C.
	assert.Contains(t, script, "nc -lk localhost 9103 2>/dev/null | (while ! nc -z localhost 9101;")
	assert.Contains(t, script, "nc -lk localhost 9104 2>/dev/null | (while ! nc -z localhost 9102;")

	// The last sink in preorder runs in the foreground.
	lines := strings.Split(strings.TrimRight(script, "\n"), "\n")
	last := lines[len(lines)-1]
	assert.Equal(t, "nc -lk localhost 9102 | stdbuf -oL Z 2>/dev/null", last)
}

func TestCompileDuplicateChannelPairEdges(t *testing.T) {
	// Two edges over the identical channel pair deliver the stream twice:
	// each gets its own relay port dialing the same destination.
	g := graph.New()
	a, err := g.AddComponent("A", nil,
		map[string]graph.ChannelKind{"o": graph.Stdout}, "X")
	require.NoError(t, err)
	b, err := g.AddComponent("B",
		map[string]graph.ChannelKind{"i": graph.Stdin}, nil, "Y")
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(a, "o", b, "i", graph.LogNone))
	require.NoError(t, g.AddEdge(a, "o", b, "i", graph.LogNone))

	script, err := New(g, Options{}).Compile([]int{9100, 9101, 9102})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(script, "| (while ! nc -z localhost 9100;"),
		"expected one independent relay per duplicate edge")
	assert.Contains(t, script, "nc -lk localhost 9101 2>/dev/null | (while ! nc -z localhost 9100;")
	assert.Contains(t, script, "nc -lk localhost 9102 2>/dev/null | (while ! nc -z localhost 9100;")
}

func TestCompileDeterminism(t *testing.T) {
	g := simplePipeline(t)
	c := New(g, Options{LogsDir: "/logs"})
	pool := []int{9100, 9101, 9102}

	first, err := c.Compile(pool)
	require.NoError(t, err)
	for range 5 {
		again, err := c.Compile(pool)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompileBackgroundForegroundSplit(t *testing.T) {
	g := simplePipeline(t)
	script, err := New(g, Options{}).Compile([]int{9100, 9101, 9102})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(script, "\n"), "\n")
	var fragments []string
	for _, line := range lines {
		if strings.HasPrefix(line, "nc ") || strings.HasPrefix(line, "stdbuf ") {
			fragments = append(fragments, line)
		}
	}
	require.NotEmpty(t, fragments)
	for _, frag := range fragments[:len(fragments)-1] {
		assert.True(t, strings.HasSuffix(frag, " &"), "fragment not backgrounded: %s", frag)
	}
	assert.False(t, strings.HasSuffix(fragments[len(fragments)-1], " &"),
		"terminal sink must stay in the foreground")
}

func TestCompileEmptyGraph(t *testing.T) {
	script, err := New(graph.New(), Options{}).Compile(nil)
	require.NoError(t, err)
	assert.Contains(t, script, "trap handler SIGINT")
	assert.NotContains(t, script, "nc -lk")
}

func TestCompileMergesSecondaryIngress(t *testing.T) {
	g := graph.New()
	src, err := g.AddComponent("src", nil,
		map[string]graph.ChannelKind{"o": graph.Stdout}, "X")
	require.NoError(t, err)
	mixer, err := g.AddComponent("mixer",
		map[string]graph.ChannelKind{"main": graph.Stdin, "side": graph.Socket},
		nil, "M")
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(src, "o", mixer, "side", graph.LogNone))

	script, err := New(g, Options{}).Compile([]int{9100, 9101, 9102})
	require.NoError(t, err)

	// mixer allocates "main" then "side" in name order; the stdin-kind
	// channel is primary, so the side listener bridges into it.
	assert.Contains(t, script, "nc -lk localhost 9100 | stdbuf -oL M")
	assert.Contains(t, script,
		"nc -lk localhost 9101 | (while ! nc -z localhost 9100; do sleep 1; done; nc localhost 9100)")
	// The unfed primary channel is the external entrypoint.
	assert.Contains(t, script, "# mixer entrypoint: [9100]")
}
