// Package schema declares the HCL block structure of pipeline definition
// files. It is purely declarative; translation into the format-agnostic
// config model happens in the hcl package.
package schema

import "github.com/hashicorp/hcl/v2"

// Channel represents an `input` or `output` block within a component.
type Channel struct {
	Name string `hcl:"name,label"`
	Kind string `hcl:"kind"`
}

// Component represents a `component` block from a pipeline file. The command
// is kept as an expression so it can interpolate the pipeline's variables.
type Component struct {
	Name    string         `hcl:"name,label"`
	Inputs  []*Channel     `hcl:"input,block"`
	Outputs []*Channel     `hcl:"output,block"`
	Command hcl.Expression `hcl:"command,optional"`
}

// Edge represents an `edge` block connecting two component channels.
type Edge struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
	Log  string `hcl:"log,optional"`
}

// Variables holds the free-form `variables` block, exposed to command
// expressions under the `var` namespace.
type Variables struct {
	Body hcl.Body `hcl:",remain"`
}

// Pipeline represents a top-level `pipeline` block.
type Pipeline struct {
	Name       string       `hcl:"name,label"`
	LogsDir    string       `hcl:"logs_dir,optional"`
	Ports      string       `hcl:"ports,optional"`
	Variables  *Variables   `hcl:"variables,block"`
	Components []*Component `hcl:"component,block"`
	Edges      []*Edge      `hcl:"edge,block"`
}

// FileRoot decodes the top level of any pipeline definition file.
type FileRoot struct {
	Pipelines []*Pipeline `hcl:"pipeline,block"`
	Remain    hcl.Body    `hcl:",remain"`
}
