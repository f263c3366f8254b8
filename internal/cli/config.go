package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/agentx-labs/uiscout/internal/cli/ui"
	"github.com/agentx-labs/uiscout/internal/config"
	"github.com/agentx-labs/uiscout/internal/recommend"
	"github.com/agentx-labs/uiscout/internal/registry"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var validate = validator.New()

// settingRules holds the validator tags for plain string settings.
var settingRules = map[string]string{
	config.KeyRegistryURL:   "required,url,startswith=http,contains={name}",
	config.KeyRegistryIndex: "required,excludes=/",
	config.KeyCacheFile:     "required",
	config.KeyProjectConfig: "required,endswith=.json",
	config.KeyRunner:        "required",
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: fmt.Sprintf(`Read and write %s settings stored at ~/%s/config.yaml.

Keys: registry_url, registry_index, timeout, cache_file, project_config,
runner, shadcn_version, recommend_limit, weights.<signal>.`, branding.DisplayName(), branding.HomeDir()),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  validArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkSetting(key, value); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  validArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

// checkSetting rejects unknown keys and values the CLI could not use later.
func checkSetting(key, value string) error {
	invalid := func(format string, a ...any) error {
		return fmt.Errorf("%w: %s: %s", registry.ErrValidation, key, fmt.Sprintf(format, a...))
	}

	if tag, ok := settingRules[key]; ok {
		if err := validate.Var(value, tag); err != nil {
			return invalid("%q fails %s", value, tag)
		}
		return nil
	}

	switch key {
	case config.KeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return invalid("%q is not a positive duration (e.g. 10s)", value)
		}
	case config.KeyRecommendLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return invalid("%q is not a positive integer", value)
		}
	case config.KeyShadcnVersion:
		in := registry.Installer{Runner: config.DefaultRunner, Package: branding.InstallerPackage(), Version: value}
		if _, err := in.GenerateAddCommand([]string{"button"}); err != nil {
			return invalid("%q is not a semantic version or \"latest\"", value)
		}
	default:
		signal, ok := strings.CutPrefix(key, config.KeyWeights+".")
		if !ok {
			return unknownSetting(key)
		}
		if !slices.Contains(recommend.SignalNames(), signal) {
			return invalid("unknown signal (known: %s)", strings.Join(recommend.SignalNames(), ", "))
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return invalid("%q is not a non-negative integer", value)
		}
	}
	return nil
}

func unknownSetting(key string) error {
	known := []string{config.KeyTimeout, config.KeyRecommendLimit, config.KeyShadcnVersion}
	for k := range settingRules {
		known = append(known, k)
	}
	slices.Sort(known)
	var hint string
	if s := ui.Similar(key, known); len(s) > 0 {
		hint = fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
	}
	return fmt.Errorf("%w: unknown config key %q%s", registry.ErrValidation, key, hint)
}
