// Package ports manages the pool of loopback ports a compilation draws from.
//
// The pool is explicit input to every compilation, never shared global state:
// one Allocator is scoped to exactly one compilation pass, hands each port
// out at most once, and is discarded afterwards. The pool is assumed to list
// ports that are actually free on the target machine; that is a precondition
// on the caller, not something the allocator verifies. The optional Vet
// helper lets the application check the precondition up front.
package ports
