package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Installer describes how the install command is spelled.
type Installer struct {
	Runner  string // e.g. "npx", "pnpm dlx", "bunx"
	Package string // e.g. "shadcn"
	Version string // "latest" or a semantic version
}

// DefaultInstaller is `npx shadcn@latest`.
var DefaultInstaller = Installer{Runner: "npx", Package: "shadcn", Version: "latest"}

// Validate checks that Version is "latest" or parses as a semantic version.
func (in Installer) Validate() error {
	if in.Runner == "" || in.Package == "" {
		return fmt.Errorf("%w: installer runner and package are required", ErrValidation)
	}
	v := strings.TrimSpace(in.Version)
	if v == "" || v == "latest" {
		return nil
	}
	if _, err := semver.NewVersion(strings.TrimPrefix(v, "v")); err != nil {
		return fmt.Errorf("%w: installer version %q is not \"latest\" or a semantic version", ErrValidation, in.Version)
	}
	return nil
}

// GenerateAddCommand builds a single shell command installing all names.
// It performs no I/O. Names containing shell metacharacters are quoted.
func (in Installer) GenerateAddCommand(names []string) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	var args []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		args = append(args, shellQuote(n))
	}
	if len(args) == 0 {
		return "", fmt.Errorf("%w: at least one component name is required", ErrValidation)
	}

	version := strings.TrimPrefix(strings.TrimSpace(in.Version), "v")
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("%s %s@%s add %s", in.Runner, in.Package, version, strings.Join(args, " ")), nil
}

// GenerateAddCommand uses DefaultInstaller.
func GenerateAddCommand(names []string) (string, error) {
	return DefaultInstaller.GenerateAddCommand(names)
}

func shellQuote(s string) string {
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@/._-:", r):
		default:
			safe = false
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
