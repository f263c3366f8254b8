package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/agentx-labs/uiscout/internal/config"
	"github.com/agentx-labs/uiscout/internal/recommend"
	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/spf13/cobra"
)

var (
	recommendLimit      int
	recommendRegistries []string
	recommendJSON       bool
)

var recommendCmd = &cobra.Command{
	Use:   `recommend "<task>"`,
	Short: "Recommend components for a development task",
	Long: `Rank registry components against a free-text task such as
"build a login form with validation". Components are scored on name,
description, category and keyword matches; each result lists its reasons.

The default registry is always searched. Registries named with --registry
are added, otherwise those configured in components.json are used.`,
	Args: validArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := recommendLimit
		if !cmd.Flags().Changed("limit") {
			limit = config.RecommendLimit()
		}
		task := strings.Join(args, " ")
		weights := recommend.WeightsFromMap(config.Weights())
		return runRecommend(cmd.Context(), openSession(cmd.ErrOrStderr()), cmd.OutOrStdout(),
			task, limit, recommendRegistries, weights, recommendJSON)
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", recommend.DefaultLimit, "Maximum number of recommendations")
	recommendCmd.Flags().StringArrayVar(&recommendRegistries, "registry", nil, "Also search this registry (repeatable)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(ctx context.Context, s *session, w io.Writer, task string, limit int, registries []string, weights recommend.Weights, asJSON bool) error {
	if len(registries) == 0 {
		info, err := s.client.ProjectInfo()
		if err != nil {
			return fmt.Errorf("%w: reading project config: %v", registry.ErrValidation, err)
		}
		registries = info.Registries
	}

	src := recommend.NewRegistrySource(s.client, registries, s.logger)
	engine := recommend.NewEngine(src,
		recommend.WithWeights(weights),
		recommend.WithManager(s.manager),
		recommend.WithLogger(s.logger))

	scores, err := engine.Recommend(ctx, task, limit)
	if err != nil {
		return fmt.Errorf("recommending components: %w", err)
	}
	for _, res := range src.Resolutions() {
		s.record(&res)
	}

	if asJSON {
		return printJSON(w, scores)
	}

	if len(scores) == 0 {
		fmt.Fprintf(w, "No components matched %q.\n", task)
		fmt.Fprintf(w, "Try different wording, or browse everything with: %s list\n", branding.CLIName())
		return nil
	}

	fmt.Fprintf(w, "Recommended for %q:\n\n", task)
	names := make([]string, 0, len(scores))
	for i, sc := range scores {
		fmt.Fprintf(w, "%2d. %s (score %d)\n", i+1, sc.Component.QualifiedName(), sc.Score)
		if sc.Component.Description != "" {
			fmt.Fprintf(w, "    %s\n", truncate(sc.Component.Description, 80))
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(sc.Reasons, "; "))
		names = append(names, sc.Component.QualifiedName())
	}

	if cmd, err := installer().GenerateAddCommand(names[:1]); err == nil {
		fmt.Fprintf(w, "\nInstall the top match:\n  %s\n", cmd)
	}
	return nil
}
