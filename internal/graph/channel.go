package graph

import "fmt"

// ChannelKind is the closed set of transports a channel can be declared with.
type ChannelKind int

// Channel kinds. Stdin is only valid on ingress, Stdout only on egress;
// Socket is valid on either side.
const (
	Stdin ChannelKind = iota
	Stdout
	Socket
)

// String returns the configuration-file spelling of the kind.
func (k ChannelKind) String() string {
	switch k {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Socket:
		return "socket"
	default:
		return fmt.Sprintf("ChannelKind(%d)", int(k))
	}
}

// ParseChannelKind maps the configuration-file spelling of a kind back to its
// value. Unrecognized spellings are rejected here, at the boundary.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch s {
	case "stdin":
		return Stdin, nil
	case "stdout":
		return Stdout, nil
	case "socket":
		return Socket, nil
	default:
		return 0, fmt.Errorf("unrecognized channel kind: %q", s)
	}
}

// Channel is a named ingress or egress of a component.
type Channel struct {
	Name string
	Kind ChannelKind
}

// LogMode selects how an edge's stream is tapped for passive logging.
type LogMode int

// Logging modes for edges.
const (
	LogNone LogMode = iota
	LogBinary
	LogText
)

// Suffix returns the filename suffix of the edge's log tap.
func (m LogMode) Suffix() string {
	switch m {
	case LogBinary:
		return ".data"
	case LogText:
		return ".log"
	default:
		return "log"
	}
}

// Timestamped reports whether the tap prefixes every row with a timestamp.
func (m LogMode) Timestamped() bool {
	return m == LogText
}

// String returns the configuration-file spelling of the mode.
func (m LogMode) String() string {
	switch m {
	case LogNone:
		return "none"
	case LogBinary:
		return "binary"
	case LogText:
		return "text"
	default:
		return fmt.Sprintf("LogMode(%d)", int(m))
	}
}

// ParseLogMode maps the configuration-file spelling of a logging mode back to
// its value. The empty string selects the default, LogText.
func ParseLogMode(s string) (LogMode, error) {
	switch s {
	case "none":
		return LogNone, nil
	case "binary":
		return LogBinary, nil
	case "text", "":
		return LogText, nil
	default:
		return 0, fmt.Errorf("unrecognized log mode: %q", s)
	}
}
