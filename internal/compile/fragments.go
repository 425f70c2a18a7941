package compile

import (
	"fmt"
	"strings"

	"github.com/ebartos/pipeliner/internal/graph"
)

// unbuffered forces line buffering on component stdout so rows flow through
// the topology as they are produced.
const unbuffered = "stdbuf -oL "

// listen emits a listener that keeps accepting connections on a loopback
// port. Without -k, nc would exit after the first -z probe touches it.
func listen(port int) string {
	return fmt.Sprintf("nc -lk localhost %d", port)
}

// probeDial emits the poll-then-connect discipline: probe the port at a fixed
// one-second interval until it accepts, then connect and stream. There is no
// timeout; a never-ready target keeps the probing side polling forever.
func probeDial(port int) string {
	return fmt.Sprintf("(while ! nc -z localhost %d; do sleep 1; done; nc localhost %d)", port, port)
}

// splitter emits a tee that duplicates the stream into one probe-dial branch
// per port. tee's own stdout would pollute the console, so it is discarded.
func splitter(ports []int) string {
	var b strings.Builder
	b.WriteString("tee ")
	for _, p := range ports {
		b.WriteString(">")
		b.WriteString(probeDial(p))
		b.WriteString(" ")
	}
	b.WriteString("1>/dev/null")
	return b.String()
}

// tap emits the tee stage that copies an edge's stream into its log file.
// Text mode prefixes every line with a timestamp; binary mode copies bytes
// verbatim.
func tap(path string, mode graph.LogMode) string {
	if mode.Timestamped() {
		return fmt.Sprintf(
			`tee >(while IFS= read -r line; do echo "$(date '+%%Y-%%m-%%d-%%H:%%M:%%S') $line"; done >%s)`,
			path)
	}
	return "tee " + path
}

// prologue emits the script header: a SIGINT trap that tears down every
// child process, and, when logging is enabled, the dated log directory.
func prologue(logsDir string) string {
	var b strings.Builder
	b.WriteString("handler()\n")
	b.WriteString("  {\n")
	b.WriteString("      pkill -TERM -P $$\n")
	b.WriteString("  }\n")
	b.WriteString("trap handler SIGINT\n\n")
	if logsDir != "" {
		b.WriteString("DATE=$(date '+%Y-%m-%d-%H:%M:%S')\n")
		fmt.Fprintf(&b, "mkdir -p %s/$DATE\n\n", logsDir)
	}
	return b.String()
}
