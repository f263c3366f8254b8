package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

var addCommandCmd = &cobra.Command{
	Use:   "add-command <component...>",
	Short: "Print the command that installs components",
	Long: `Print a single install command for the given components, e.g.
"npx shadcn@latest add button card". Nothing is executed. The runner and
version come from the runner and shadcn_version settings.`,
	Args: validArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAddCommand(cmd.OutOrStdout(), installer(), args)
	},
}

func init() {
	rootCmd.AddCommand(addCommandCmd)
}

func runAddCommand(w io.Writer, in registry.Installer, names []string) error {
	line, err := in.GenerateAddCommand(names)
	if err != nil {
		return fmt.Errorf("generating install command: %w", err)
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
