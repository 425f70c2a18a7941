package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ebartos/pipeliner/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pipeliner", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Pipeliner - compiles a declarative component pipeline into a socket-wired
process topology script.

Usage:
  pipeliner [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a single .hcl pipeline definition or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline definition file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline definition file or directory (shorthand).")
	outputFlag := flagSet.String("output", "", "Write the generated script to this path instead of stdout.")
	oFlag := flagSet.String("o", "", "Write the generated script to this path instead of stdout (shorthand).")
	dotFlag := flagSet.String("dot", "", "Also write a Graphviz DOT rendering of the graph to this path.")
	portsFlag := flagSet.String("ports", "", "Inline port pool spec, e.g. '9100-9199' or '9100-9149,9300'.")
	portsFileFlag := flagSet.String("ports-file", "", "YAML file listing the port pool.")
	vetPortsFlag := flagSet.Bool("vet-ports", false, "Verify every pool port is bindable on loopback before compiling.")
	logsDirFlag := flagSet.String("logs-dir", "", "Root directory for the generated topology's log files. Overrides the pipeline's logs_dir.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Pipeline path determined.", "path", path)

	if path == "" {
		slog.Debug("No pipeline path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *oFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PipelinePath: path,
		OutputPath:   outputPath,
		DotPath:      *dotFlag,
		Ports:        *portsFlag,
		PortsFile:    *portsFileFlag,
		VetPorts:     *vetPortsFlag,
		LogsDir:      *logsDirFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
