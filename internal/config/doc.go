// Package config defines the format-agnostic model of a pipeline definition,
// along with the Loader interface for reading one from disk. The model is the
// single source of truth for graph construction; concrete loaders, such as
// the HCL one, live in separate packages.
package config
