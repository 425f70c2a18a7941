// Package hcl is the HCL-specific implementation of config.Loader. It
// discovers .hcl files, decodes their pipeline blocks, evaluates command
// expressions against the pipeline's variables, and merges everything into
// the format-agnostic config model.
package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/ebartos/pipeliner/internal/config"
	"github.com/ebartos/pipeliner/internal/ctxlog"
	"github.com/ebartos/pipeliner/internal/fsutil"
	"github.com/ebartos/pipeliner/internal/schema"
)

// Loader reads pipeline definitions written in HCL.
type Loader struct{}

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths. Exactly one pipeline
// block must be declared across all of them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := l.findDefinitionFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered pipeline definition files.", "count", len(files))
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl pipeline definitions found under %v", paths)
	}

	parser := hclparse.NewParser()
	var pipelines []*schema.Pipeline
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		var root schema.FileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		pipelines = append(pipelines, root.Pipelines...)
	}

	switch len(pipelines) {
	case 0:
		return nil, fmt.Errorf("no pipeline block declared in %v", paths)
	case 1:
	default:
		return nil, fmt.Errorf("expected exactly one pipeline block, found %d", len(pipelines))
	}

	pipeline, err := l.translatePipeline(pipelines[0])
	if err != nil {
		return nil, err
	}
	logger.Debug("Pipeline definition loaded.",
		"pipeline", pipeline.Name,
		"components", len(pipeline.Components),
		"edges", len(pipeline.Edges))
	return pipeline, nil
}

// findDefinitionFiles accepts both direct file paths and directories to walk.
func (l *Loader) findDefinitionFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}
