package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [registry]",
	Short: "List the components of a registry",
	Long: `List every component in the default registry, or in a named registry
(e.g. @acme) configured in components.json or remembered in the local cache.`,
	Args: validArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return runList(cmd.Context(), openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), name, listJSON)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(ctx context.Context, s *session, w io.Writer, registryName string, asJSON bool) error {
	items, res, err := s.client.ListComponents(ctx, registryName)
	if err != nil {
		return fmt.Errorf("listing components: %w", err)
	}
	s.record(res)

	if asJSON {
		if items == nil {
			items = []registry.ComponentItem{}
		}
		return printJSON(w, items)
	}

	if len(items) == 0 {
		fmt.Fprintf(w, "No components found in %s.\n", displayRegistry(registryName))
		return nil
	}
	if err := printComponentTable(w, items); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s in %s\n", plural(len(items), "component", "components"), displayRegistry(registryName))
	return nil
}

func displayRegistry(name string) string {
	if name == "" {
		return registry.DefaultRegistryName
	}
	return registry.NormalizeRegistryName(name)
}
