package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/ebartos/pipeliner/internal/config"
	"github.com/ebartos/pipeliner/internal/schema"
)

// translatePipeline converts the decoded HCL blocks into the agnostic model,
// evaluating every command expression against the pipeline's variables.
func (l *Loader) translatePipeline(s *schema.Pipeline) (*config.Pipeline, error) {
	evalCtx, err := l.variablesContext(s)
	if err != nil {
		return nil, err
	}

	p := &config.Pipeline{
		Name:    s.Name,
		LogsDir: s.LogsDir,
		Ports:   s.Ports,
	}
	for _, comp := range s.Components {
		translated, err := l.translateComponent(comp, evalCtx)
		if err != nil {
			return nil, err
		}
		p.Components = append(p.Components, translated)
	}
	for _, e := range s.Edges {
		p.Edges = append(p.Edges, &config.Edge{From: e.From, To: e.To, Log: e.Log})
	}
	return p, nil
}

func (l *Loader) translateComponent(s *schema.Component, evalCtx *hcl.EvalContext) (*config.Component, error) {
	command, err := evaluateCommand(s, evalCtx)
	if err != nil {
		return nil, err
	}

	c := &config.Component{Name: s.Name, Command: command}
	for _, in := range s.Inputs {
		c.Inputs = append(c.Inputs, &config.Channel{Name: in.Name, Kind: in.Kind})
	}
	for _, out := range s.Outputs {
		c.Outputs = append(c.Outputs, &config.Channel{Name: out.Name, Kind: out.Kind})
	}
	return c, nil
}

// evaluateCommand resolves the command expression to a string. An absent
// command attribute declares a pure source or sink.
func evaluateCommand(s *schema.Component, evalCtx *hcl.EvalContext) (string, error) {
	if s.Command == nil {
		return "", nil
	}
	val, diags := s.Command.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("component %s: evaluating command: %w", s.Name, diags)
	}
	if val.IsNull() {
		return "", nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("component %s: command is not a string: %w", s.Name, err)
	}
	return str.AsString(), nil
}

// variablesContext builds the evaluation context exposing the pipeline's
// variables block under the `var` namespace.
func (l *Loader) variablesContext(s *schema.Pipeline) (*hcl.EvalContext, error) {
	vars := make(map[string]cty.Value)
	if s.Variables != nil {
		attrs, diags := s.Variables.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("pipeline %s: decoding variables: %w", s.Name, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("pipeline %s: evaluating variable %s: %w", s.Name, name, diags)
			}
			vars[name] = val
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(vars),
		},
	}, nil
}
