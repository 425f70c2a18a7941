// Package compile turns a validated component graph into a bash script that
// wires the components together as independent OS processes over loopback
// sockets.
//
// The generated topology tolerates arbitrary process start order without
// dropping data: a process never writes to a socket until a probe loop has
// confirmed the target is listening. Each edge runs through a dedicated relay
// port, which decouples the source's readiness probe from the destination's
// real address and gives the logging tap a place to live. The probe loops
// retry forever at a fixed one-second interval; a peer that never comes up
// makes the probing side poll indefinitely. That is a deliberate property of
// the generated script, kept for compatibility, not something the compiler
// papers over. Nothing supervises the launched processes either: a crashed
// component or relay stays down until the operator restarts the script.
//
// The compiler itself performs no I/O and is fully deterministic: the same
// graph and the same pool always produce the same text, the same port
// assignment, and the same stderr labels. The only way compilation can fail
// is running out of ports.
package compile
