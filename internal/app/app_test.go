package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebartos/pipeliner/internal/hcl"
)

const appPipeline = `
pipeline "shouting" {
  ports = "9100-9102"

  component "upper" {
    input "raw" {
      kind = "stdin"
    }
    output "up" {
      kind = "stdout"
    }
    command = "tr [:lower:] [:upper:]"
  }

  component "saver" {
    input "text" {
      kind = "stdin"
    }
    command = "cat >/tmp/saved.txt"
  }

  edge {
    from = "upper"
    to   = "saver"
    log  = "none"
  }
}
`

func TestAppRun(t *testing.T) {
	dir := t.TempDir()
	definition := filepath.Join(dir, "shouting.hcl")
	require.NoError(t, os.WriteFile(definition, []byte(appPipeline), 0o644))
	scriptPath := filepath.Join(dir, "topology.sh")
	dotPath := filepath.Join(dir, "pipeline.dot")

	cfg, err := NewConfig(Config{
		PipelinePath: definition,
		OutputPath:   scriptPath,
		DotPath:      dotPath,
		LogFormat:    "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)

	var out, errs bytes.Buffer
	a := NewApp(&out, &errs, cfg, hcl.NewLoader())
	require.NoError(t, a.Run(t.Context()))

	script, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	assert.Contains(t, string(script), "# upper entrypoint: [9100]")
	assert.Contains(t, string(script), "stdbuf -oL tr [:lower:] [:upper:]")
	assert.Contains(t, string(script), "trap handler SIGINT")
	assert.Empty(t, out.String(), "script goes to the file, not stdout")

	dot, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"upper" -> "saver"`)
}

func TestNewConfigValidation(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err)

	_, err = NewConfig(Config{PipelinePath: "p.hcl", Ports: "9100", PortsFile: "pool.yaml"})
	assert.ErrorContains(t, err, "mutually exclusive")

	cfg, err := NewConfig(Config{PipelinePath: "p.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "p.hcl", cfg.PipelinePath)
}
