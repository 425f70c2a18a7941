// Package cli parses command-line arguments into an app.Config. It owns the
// usage text and the mapping from bad flags to process exit codes; everything
// after parsing is the app package's business.
package cli
