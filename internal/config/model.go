package config

import "context"

// Loader is the interface for a format-specific pipeline definition loader.
type Loader interface {
	// Load reads every definition file under the given paths and merges
	// them into one pipeline model.
	Load(ctx context.Context, paths ...string) (*Pipeline, error)
}

// Pipeline is the unified representation of one declared pipeline: the
// components, the edges between them, and the compilation defaults the
// definition carries with it.
type Pipeline struct {
	Name    string
	LogsDir string
	// Ports is a pool spec like "9100-9199", or empty for the default.
	Ports      string
	Components []*Component
	Edges      []*Edge
}

// Component is the format-agnostic representation of a component block.
// Commands arrive fully evaluated; variable interpolation is the loader's
// business.
type Component struct {
	Name    string
	Inputs  []*Channel
	Outputs []*Channel
	Command string
}

// Channel is one declared input or output. Kind is the textual spelling
// ("stdin", "stdout", "socket"); the graph layer validates it.
type Channel struct {
	Name string
	Kind string
}

// Edge is the format-agnostic representation of an edge block. From and To
// are "component.channel" endpoints; the channel part may be omitted when
// the component has exactly one channel on that side. Log is the textual
// logging mode, empty meaning the default.
type Edge struct {
	From string
	To   string
	Log  string
}
