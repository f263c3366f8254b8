package cli

import (
	"errors"
	"fmt"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/agentx-labs/uiscout/internal/cli/ui"
	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

// notCachedError is returned when a registry name is not in the local cache.
type notCachedError struct {
	name        string
	suggestions []string
}

func (e *notCachedError) Error() string {
	return fmt.Sprintf("registry %s is not in the local cache", e.name)
}

// auditError marks a completed audit that found failures. Its report is
// already printed, so only a short summary is rendered.
type auditError struct {
	failures int
}

func (e *auditError) Error() string {
	return fmt.Sprintf("audit found %d failing check(s)", e.failures)
}

// usageError is a rejected command line. It remembers the command so the
// hint can point at that command's help.
type usageError struct {
	command     string
	err         error
	suggestions []string
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func newUsageError(cmd *cobra.Command, err error) error {
	return &usageError{
		command: cmd.CommandPath(),
		err:     fmt.Errorf("%w: %v", registry.ErrValidation, err),
	}
}

// validArgs reports positional argument failures as invalid input.
func validArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return newUsageError(cmd, err)
		}
		return nil
	}
}

// unknownCommand rejects a first argument that names no subcommand.
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return &usageError{
		command:     cmd.CommandPath(),
		err:         fmt.Errorf("%w: unknown command %q for %q", registry.ErrValidation, args[0], cmd.CommandPath()),
		suggestions: cmd.SuggestionsFor(args[0]),
	}
}

// describeError maps an error to a message and the one next step that most
// likely resolves it.
func describeError(err error, noColor bool) ui.Message {
	cli := branding.CLIName()
	m := ui.Message{Problem: err.Error(), NoColor: noColor}

	var nc *notCachedError
	var ae *auditError
	var ue *usageError
	switch {
	case errors.As(err, &nc):
		m.Context = "unknown registry"
		m.Suggestions = nc.suggestions
		m.NextSteps = []string{fmt.Sprintf("List cached registries: %s registries", cli)}
	case errors.As(err, &ae):
		m.Context = "audit failed"
		m.NextSteps = []string{"Fix the [FAIL] lines above and run the audit again"}
	case errors.Is(err, registry.ErrNoProjectConfig):
		m.Context = "no project config"
		m.NextSteps = []string{fmt.Sprintf("Initialize the project: %s", initCommand())}
	case errors.Is(err, registry.ErrComponentNotFound):
		m.Context = "component not found"
		m.NextSteps = []string{fmt.Sprintf("Search the registry: %s search <name>", cli)}
	case errors.As(err, &ue):
		m.Context = "invalid input"
		m.Suggestions = ue.suggestions
		m.NextSteps = []string{fmt.Sprintf("Check the command usage: %s --help", ue.command)}
	case errors.Is(err, registry.ErrValidation):
		m.Context = "invalid input"
		m.NextSteps = []string{fmt.Sprintf("Check the command usage: %s help", cli)}
	case errors.Is(err, registry.ErrRegistryUnreachable):
		m.Context = "registry unreachable"
		m.NextSteps = []string{fmt.Sprintf("Check the registry URL and your network, then run: %s audit", cli)}
	default:
		m.NextSteps = []string{fmt.Sprintf("Run with --verbose for details: %s --verbose <command>", cli)}
	}
	return m
}

func initCommand() string {
	in := installer()
	return fmt.Sprintf("%s %s@%s init", in.Runner, in.Package, in.Version)
}
