// Package graph models a pipeline as a directed acyclic multigraph of
// processing components. A component declares named ingress and egress
// channels plus an opaque shell command; an edge connects one component's
// egress channel to another component's ingress channel.
//
// The graph is append-only: components and edges are declared up front and
// are immutable afterwards. Acyclicity is enforced incrementally on every
// edge insertion, so the graph is valid at all times and compilation never
// has to re-validate structure.
//
// Parallel edges between the same pair of components are permitted; each one
// is compiled independently. What is not supported is fan-in: every ingress
// channel expects exactly one producer.
package graph
