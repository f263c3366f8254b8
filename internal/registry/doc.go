// Package registry talks to shadcn-style component registries over HTTP.
// It resolves registry names through the default registry, the project's
// components.json and registries known from the local cache, fetches catalog
// listings, searches and single items, and normalizes the varied response
// shapes into ComponentItem values. Successful calls against named registries
// report a Resolution so callers can record the registry as verified; the
// client itself never writes any local state.
package registry
