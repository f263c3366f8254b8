package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/agentx-labs/uiscout/internal/cli/ui"
	"github.com/agentx-labs/uiscout/internal/regcache"
	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

var registriesJSON bool

func init() {
	registriesCmd.PersistentFlags().BoolVar(&registriesJSON, "json", false, "Output in JSON format")
	registriesCmd.AddCommand(registriesListCmd)
	registriesCmd.AddCommand(registriesAddCmd)
	registriesCmd.AddCommand(registriesRemoveCmd)
	registriesCmd.AddCommand(registriesImportCmd)
	rootCmd.AddCommand(registriesCmd)
}

var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "Manage known registries",
	Long: `List, add, remove and import the registries remembered in the local
cache. Registries reached successfully by any command are recorded as verified.`,
	Args: validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistriesList(openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), registriesJSON)
	},
}

var registriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached and project registries",
	Args:  validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistriesList(openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), registriesJSON)
	},
}

var registriesAddCmd = &cobra.Command{
	Use:   "add <name> <url> [description]",
	Short: "Remember a registry",
	Long: `Add a registry to the local cache. The URL is a template containing
{name}, e.g. https://acme.dev/r/{name}.json. The entry is unverified until a
command reaches it successfully.`,
	Args: validArgs(cobra.RangeArgs(2, 3)),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc := ""
		if len(args) > 2 {
			desc = args[2]
		}
		return runRegistriesAdd(openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), args[0], args[1], desc)
	},
}

var registriesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget a registry",
	Args:  validArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistriesRemove(openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(), args[0])
	},
}

var registriesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import registries from components.json",
	Args:  validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegistriesImport(openSession(cmd.ErrOrStderr()), cmd.OutOrStdout())
	},
}

// registryRow is one line of the registries listing.
type registryRow struct {
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Description  string    `json:"description,omitempty"`
	Verified     bool      `json:"verified"`
	Source       string    `json:"source"`
	LastAccessed time.Time `json:"lastAccessed,omitzero"`
}

// registryRows merges the cache with project registries that have not been
// cached yet. Cached entries keep their recency order; project-only entries
// follow, sorted by name.
func registryRows(s *session) ([]registryRow, error) {
	var rows []registryRow
	cached := make(map[string]bool)
	for _, e := range s.cache.All() {
		cached[e.Name] = true
		rows = append(rows, registryRow{
			Name:         e.Name,
			URL:          e.URL,
			Description:  e.Description,
			Verified:     e.Verified,
			Source:       "cache",
			LastAccessed: e.LastAccessed,
		})
	}

	info, err := s.client.ProjectInfo()
	if err != nil {
		return nil, fmt.Errorf("%w: reading project config: %v", registry.ErrValidation, err)
	}
	for _, name := range info.Registries {
		if cached[name] {
			continue
		}
		rows = append(rows, registryRow{Name: name, URL: info.RegistryURLs[name], Source: "project"})
	}
	return rows, nil
}

func runRegistriesList(s *session, w io.Writer, asJSON bool) error {
	rows, err := registryRows(s)
	if err != nil {
		return err
	}

	if asJSON {
		if rows == nil {
			rows = []registryRow{}
		}
		return printJSON(w, rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No registries known yet.")
		fmt.Fprintf(w, "Add one with: %s registries add @name https://example.com/r/{name}.json\n", branding.CLIName())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tURL\tVERIFIED\tSOURCE\tLAST USED")
	for _, r := range rows {
		verified := "no"
		if r.Verified {
			verified = "yes"
		}
		last := "-"
		if !r.LastAccessed.IsZero() {
			last = r.LastAccessed.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.URL, verified, r.Source, last)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	st := s.cache.Stats()
	fmt.Fprintf(w, "\n%s cached, %s\n", plural(st.Total, "registry", "registries"), printer.Sprintf("%d verified", st.Verified))
	return nil
}

func runRegistriesAdd(s *session, w io.Writer, name, rawURL, description string) error {
	e, err := s.cache.Add(registry.NormalizeRegistryName(name), rawURL, description, false)
	if errors.Is(err, regcache.ErrInvalidEntry) {
		return fmt.Errorf("%w: %v", registry.ErrValidation, err)
	}
	if err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	state := "unverified"
	if e.Verified {
		state = "verified"
	}
	fmt.Fprintln(w, ui.Success(fmt.Sprintf("Added %s (%s)", e.Name, state), noColor))
	return nil
}

func runRegistriesRemove(s *session, w io.Writer, name string) error {
	name = registry.NormalizeRegistryName(name)
	removed, err := s.cache.Remove(name)
	if err != nil {
		return fmt.Errorf("removing registry: %w", err)
	}
	if !removed {
		var names []string
		for _, e := range s.cache.All() {
			names = append(names, e.Name)
		}
		sort.Strings(names)
		return &notCachedError{name: name, suggestions: ui.Similar(name, names)}
	}
	fmt.Fprintln(w, ui.Success("Removed "+name, noColor))
	return nil
}

func runRegistriesImport(s *session, w io.Writer) error {
	info, err := s.client.ProjectInfo()
	if err != nil {
		return fmt.Errorf("%w: reading project config: %v", registry.ErrValidation, err)
	}
	if !info.HasConfig {
		return fmt.Errorf("%w: %s not found", registry.ErrNoProjectConfig, info.ConfigPath)
	}

	n, err := s.cache.ImportFromConfig(info.RegistryURLs)
	if err != nil {
		return fmt.Errorf("importing registries: %w", err)
	}
	fmt.Fprintln(w, ui.Success(fmt.Sprintf("Imported %s from %s",
		plural(n, "registry", "registries"), info.ConfigPath), noColor))
	return nil
}
