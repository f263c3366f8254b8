package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

var viewJSON bool

var viewCmd = &cobra.Command{
	Use:   "view <component>",
	Short: "Show the details of one component",
	Long: `Show a component's description, dependencies, files and the command that
installs it. Use @registry/name to view an item from a named registry.`,
	Args: validArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd.Context(), openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), args[0], viewJSON)
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(viewCmd)
}

func runView(ctx context.Context, s *session, w io.Writer, name string, asJSON bool) error {
	item, res, err := s.client.ViewComponent(ctx, name)
	if err != nil {
		return fmt.Errorf("viewing %s: %w", name, err)
	}
	s.record(res)

	if asJSON {
		return printJSON(w, item)
	}
	return printComponent(w, *item)
}

func printComponent(w io.Writer, it registry.ComponentItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", it.QualifiedName())
	if it.Title != "" {
		fmt.Fprintf(tw, "Title:\t%s\n", it.Title)
	}
	fmt.Fprintf(tw, "Registry:\t%s\n", orDash(it.Registry))
	fmt.Fprintf(tw, "Type:\t%s\n", orDash(it.Type))
	fmt.Fprintf(tw, "Category:\t%s\n", orDash(it.Category))
	if it.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", it.Description)
	}
	if len(it.Dependencies) > 0 {
		fmt.Fprintf(tw, "Dependencies:\t%s\n", strings.Join(it.Dependencies, ", "))
	}
	if len(it.RegistryDependencies) > 0 {
		fmt.Fprintf(tw, "Registry deps:\t%s\n", strings.Join(it.RegistryDependencies, ", "))
	}
	if it.Metadata != nil && len(it.Metadata.UseCases) > 0 {
		fmt.Fprintf(tw, "Use cases:\t%s\n", strings.Join(it.Metadata.UseCases, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(it.Files) > 0 {
		fmt.Fprintln(w, "\nFiles:")
		for _, f := range it.Files {
			line := "  " + f.Path
			if f.Target != "" {
				line += " -> " + f.Target
			}
			fmt.Fprintln(w, line)
		}
	}

	if cmd, err := installer().GenerateAddCommand([]string{it.QualifiedName()}); err == nil {
		fmt.Fprintf(w, "\nInstall:\n  %s\n", cmd)
	}
	return nil
}
