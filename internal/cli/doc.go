// Package cli defines the Cobra command tree for the uiscout CLI. Each file
// in this package registers one top-level command (list, search, recommend,
// etc.) with the root command. Commands delegate to internal packages for
// registry access, ranking and caching, and only handle flags and output.
package cli
