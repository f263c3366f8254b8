package cli

import (
	"github.com/agentx-labs/uiscout/internal/audit"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check project config, registries and the local cache",
	Long: `Run health checks: components.json presence and schema validity, the
reachability of the default and every configured registry, and the state of
the local registry cache. Reachable registries are recorded as verified.`,
	Args: validArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := openSession(cmd.ErrOrStderr())
		r := audit.Run(cmd.Context(), cmd.OutOrStdout(), audit.Options{
			Client:   s.client,
			Cache:    s.cache,
			InitHint: initCommand(),
			Logger:   s.logger,
		})
		if !r.Healthy() {
			return &auditError{failures: r.Failures}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
