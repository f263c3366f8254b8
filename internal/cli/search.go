package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchOffset int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query> [registry]",
	Short: "Search a registry for components",
	Long: `Search a registry for components whose name or description matches the
query (case-insensitive). Results are paginated with --limit and --offset.`,
	Args: validArgs(cobra.RangeArgs(1, 2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		opts := registry.SearchOptions{Offset: searchOffset, Limit: searchLimit}
		return runSearch(cmd.Context(), openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), args[0], name, opts, searchJSON)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", registry.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(ctx context.Context, s *session, w io.Writer, query, registryName string, opts registry.SearchOptions, asJSON bool) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query must not be empty", registry.ErrValidation)
	}

	result, res, err := s.client.SearchComponents(ctx, query, registryName, opts)
	if err != nil {
		return fmt.Errorf("searching components: %w", err)
	}
	s.record(res)

	if asJSON {
		if result.Items == nil {
			result.Items = []registry.ComponentItem{}
		}
		return printJSON(w, result)
	}

	if len(result.Items) == 0 {
		fmt.Fprintf(w, "No components matching %q in %s.\n", query, displayRegistry(registryName))
		return nil
	}
	if err := printComponentTable(w, result.Items); err != nil {
		return err
	}

	p := result.Pagination
	fmt.Fprintln(w)
	fmt.Fprintln(w, printer.Sprintf("Showing %d-%d of %d", p.Offset+1, p.Offset+len(result.Items), p.Total))
	if p.HasMore {
		fmt.Fprintf(w, "More results: --offset %d\n", p.Offset+len(result.Items))
	}
	return nil
}
