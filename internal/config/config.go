package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentx-labs/uiscout/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the CLI.
const (
	KeyRegistryURL    = "registry_url"
	KeyRegistryIndex  = "registry_index"
	KeyTimeout        = "timeout"
	KeyCacheFile      = "cache_file"
	KeyProjectConfig  = "project_config"
	KeyRunner         = "runner"
	KeyShadcnVersion  = "shadcn_version"
	KeyRecommendLimit = "recommend_limit"
	KeyWeights        = "weights"
)

// Default values applied before the config file and environment are read.
const (
	DefaultRegistryURL    = "https://ui.shadcn.com/r/{name}.json"
	DefaultRegistryIndex  = "index"
	DefaultTimeout        = 10 * time.Second
	DefaultProjectConfig  = "components.json"
	DefaultRunner         = "npx"
	DefaultShadcnVersion  = "latest"
	DefaultRecommendLimit = 10
	cacheFileName         = "registries.json"
)

// Dir returns the path to the config directory (~/.uiscout/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.uiscout/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyRegistryURL, DefaultRegistryURL)
	viper.SetDefault(KeyRegistryIndex, DefaultRegistryIndex)
	viper.SetDefault(KeyTimeout, DefaultTimeout)
	viper.SetDefault(KeyCacheFile, filepath.Join(Dir(), cacheFileName))
	viper.SetDefault(KeyProjectConfig, DefaultProjectConfig)
	viper.SetDefault(KeyRunner, DefaultRunner)
	viper.SetDefault(KeyShadcnVersion, DefaultShadcnVersion)
	viper.SetDefault(KeyRecommendLimit, DefaultRecommendLimit)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Timeout returns the per-request registry timeout, falling back to the
// default when the configured value is missing or not positive.
func Timeout() time.Duration {
	d := viper.GetDuration(KeyTimeout)
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// RecommendLimit returns the default number of recommendations.
func RecommendLimit() int {
	n := viper.GetInt(KeyRecommendLimit)
	if n <= 0 {
		return DefaultRecommendLimit
	}
	return n
}

// Weights returns user overrides for recommendation signal weights, keyed by
// signal name (e.g. "exact_name"). Unknown keys are ignored by the caller.
func Weights() map[string]int {
	raw := viper.GetStringMap(KeyWeights)
	out := make(map[string]int, len(raw))
	for k := range raw {
		out[k] = viper.GetInt(KeyWeights + "." + k)
	}
	return out
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
