// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package before building; Go's
// //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	GoModule         string `yaml:"go_module"`
	InstallerPackage string `yaml:"installer_package"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "uiscout",
			DisplayName:      "UIScout",
			Description:      "Discover and recommend UI components from shadcn-style registries",
			HomeDir:          ".uiscout",
			EnvPrefix:        "UISCOUT",
			GoModule:         "github.com/agentx-labs/uiscout",
			InstallerPackage: "shadcn",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "uiscout").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".uiscout").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "UISCOUT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// InstallerPackage returns the npm package whose CLI installs components
// (e.g., "shadcn" for `npx shadcn@latest add button`).
func InstallerPackage() string { load(); return defaults.InstallerPackage }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "UISCOUT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
