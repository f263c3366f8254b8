// Package config manages user-level settings stored at ~/.uiscout/config.yaml.
// It exposes the default registry URL template, request timeout, cache file
// location, installer runner/version and recommendation weights, each
// overridable through UISCOUT_* environment variables.
package config
