package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	examplesJSON bool
	examplesCode bool
)

var examplesCmd = &cobra.Command{
	Use:   "examples <component>",
	Short: "Show usage examples for a component",
	Long: `Show the demo and example items a registry publishes for a component
(e.g. button-demo). Use --code to print the example source files.`,
	Args: validArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExamples(cmd.Context(), openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), args[0], examplesCode, examplesJSON)
	},
}

func init() {
	examplesCmd.Flags().BoolVar(&examplesCode, "code", false, "Print example file contents when the registry provides them")
	examplesCmd.Flags().BoolVar(&examplesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(examplesCmd)
}

func runExamples(ctx context.Context, s *session, w io.Writer, name string, withCode, asJSON bool) error {
	examples, res, err := s.client.Examples(ctx, name)
	if err != nil {
		return fmt.Errorf("finding examples for %s: %w", name, err)
	}
	s.record(res)

	if asJSON {
		return printJSON(w, examples)
	}

	fmt.Fprintf(w, "%s for %s:\n\n", plural(len(examples), "example", "examples"), name)
	for _, ex := range examples {
		fmt.Fprintf(w, "  %s\n", ex.QualifiedName())
		if ex.Description != "" {
			fmt.Fprintf(w, "    %s\n", ex.Description)
		}
		for _, f := range ex.Files {
			fmt.Fprintf(w, "    file: %s\n", f.Path)
			if withCode && f.Content != "" {
				fmt.Fprintf(w, "\n%s\n\n", f.Content)
			}
		}
	}
	return nil
}
