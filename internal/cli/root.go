package cli

import (
	"os"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/agentx-labs/uiscout/internal/cli/ui"
	"github.com/agentx-labs/uiscout/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	projectDir string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` discovers UI components in shadcn-style registries, recommends
components for a development task, and remembers the registries you have used.`,
	Args:          unknownCommand,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", ".", "Directory containing components.json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log registry requests and skipped registries")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.SetFlagErrorFunc(newUsageError)
}

// Execute runs the root command with build info injected via ldflags.
// Failures are rendered to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		ui.Write(os.Stderr, describeError(err, noColor || color.NoColor))
	}
	return err
}
