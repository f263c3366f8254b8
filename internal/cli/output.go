package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agentx-labs/uiscout/internal/registry"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats counts for humans ("1,204 components").
var printer = message.NewPrinter(language.English)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printComponentTable(w io.Writer, items []registry.ComponentItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tCATEGORY\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			it.QualifiedName(),
			orDash(strings.TrimPrefix(it.Type, "registry:")),
			orDash(it.Category),
			truncate(it.Description, 60))
	}
	return tw.Flush()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, one)
	}
	return printer.Sprintf("%d %s", n, many)
}
