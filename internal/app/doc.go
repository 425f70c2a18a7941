// Package app wires the application together: it loads the pipeline
// definition, builds the component graph, resolves the port pool, and drives
// the compiler. The cli package produces its Config; everything below it is
// deterministic library code.
package app
