package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// PipelinePath is a .hcl file or a directory of them.
	PipelinePath string

	// OutputPath is the script destination; empty writes to stdout.
	OutputPath string
	// DotPath, when set, additionally writes a Graphviz rendering there.
	DotPath string

	// Ports is an inline pool spec like "9100-9199"; PortsFile a YAML pool
	// file. Either overrides the pipeline definition's own pool.
	Ports     string
	PortsFile string
	// VetPorts checks that every pool port is bindable before compiling.
	VetPorts bool

	// LogsDir overrides the pipeline definition's logs_dir.
	LogsDir string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.Ports != "" && cfg.PortsFile != "" {
		return nil, errors.New("Ports and PortsFile are mutually exclusive")
	}
	return &cfg, nil
}
