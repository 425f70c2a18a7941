package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ebartos/pipeliner/internal/compile"
	"github.com/ebartos/pipeliner/internal/ctxlog"
	"github.com/ebartos/pipeliner/internal/ports"
	"github.com/ebartos/pipeliner/internal/viz"
)

// Run executes the main application logic: build the graph, resolve the port
// pool, compile, and write the topology script.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := buildGraph(a.pipeline)
	if err != nil {
		return fmt.Errorf("failed to build component graph: %w", err)
	}
	live := g.Live()
	a.logger.Info("Component graph built.",
		"pipeline", a.pipeline.Name,
		"components", len(g.Components()),
		"live", len(live),
		"edges", len(g.Edges()))
	if len(live) == 0 {
		a.logger.Warn("No edges declared; every component is dead and the topology is empty.")
	}

	pool, err := a.resolvePool()
	if err != nil {
		return err
	}
	a.logger.Debug("Port pool resolved.", "size", len(pool))

	if a.cfg.VetPorts {
		if err := ports.Vet(ctx, pool); err != nil {
			return fmt.Errorf("port pool failed vetting: %w", err)
		}
		a.logger.Info("Port pool vetted.", "size", len(pool))
	}

	logsDir := a.pipeline.LogsDir
	if a.cfg.LogsDir != "" {
		logsDir = a.cfg.LogsDir
	}

	compiler := compile.New(g, compile.Options{LogsDir: logsDir})
	script, err := compiler.Compile(pool)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	if err := a.writeScript(script); err != nil {
		return err
	}

	if a.cfg.DotPath != "" {
		if err := os.WriteFile(a.cfg.DotPath, []byte(viz.DOT(g)), 0o644); err != nil {
			return fmt.Errorf("writing graph rendering: %w", err)
		}
		a.logger.Info("Graph rendering written.", "path", a.cfg.DotPath)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// resolvePool picks the port pool in precedence order: inline flag, pool
// file, the pipeline definition's own ports attribute, then the default
// range.
func (a *App) resolvePool() ([]int, error) {
	switch {
	case a.cfg.Ports != "":
		return ports.ParseSpec(a.cfg.Ports)
	case a.cfg.PortsFile != "":
		return ports.LoadPoolFile(a.cfg.PortsFile)
	case a.pipeline.Ports != "":
		return ports.ParseSpec(a.pipeline.Ports)
	default:
		return ports.DefaultPool(), nil
	}
}

func (a *App) writeScript(script string) error {
	if a.cfg.OutputPath == "" {
		_, err := fmt.Fprint(a.outW, script)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, []byte(script), 0o755); err != nil {
		return fmt.Errorf("writing topology script: %w", err)
	}
	a.logger.Info("Topology script written.", "path", a.cfg.OutputPath)
	return nil
}
