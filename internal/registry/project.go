package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ProjectConfig is the subset of components.json this tool reads.
type ProjectConfig struct {
	Style      string                    `json:"style,omitempty"`
	Registries map[string]RegistryConfig `json:"registries,omitempty"`
}

// RegistryConfig is one entry of the components.json "registries" map. The
// file allows either a bare URL template string or an object with headers
// and query params.
type RegistryConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// UnmarshalJSON accepts the string and object forms.
func (r *RegistryConfig) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		*r = RegistryConfig{URL: url}
		return nil
	}
	type plain RegistryConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("registry entry must be a URL string or an object: %w", err)
	}
	*r = RegistryConfig(p)
	return nil
}

// LoadProjectConfig reads and parses a components.json file. A missing file
// yields an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project config %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing project config %s: %w", path, err)
	}
	return &cfg, nil
}

// RegistryURLs flattens the registries map to name → URL template.
func (c *ProjectConfig) RegistryURLs() map[string]string {
	out := make(map[string]string, len(c.Registries))
	for name, rc := range c.Registries {
		out[name] = rc.URL
	}
	return out
}

// Lookup finds a registry entry by name, tolerating a missing "@" prefix.
func (c *ProjectConfig) Lookup(name string) (RegistryConfig, bool) {
	if c == nil {
		return RegistryConfig{}, false
	}
	if rc, ok := c.Registries[name]; ok {
		return rc, true
	}
	rc, ok := c.Registries[NormalizeRegistryName(name)]
	return rc, ok
}

// projectConfigPath returns the components.json path for the client.
func (c *Client) projectConfigPath() string {
	if filepath.IsAbs(c.configFile) {
		return c.configFile
	}
	return filepath.Join(c.projectDir, c.configFile)
}

// loadProject returns the project config, or nil when none is present.
// Parse failures are returned so they are not mistaken for absence.
func (c *Client) loadProject() (*ProjectConfig, error) {
	path := c.projectConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadProjectConfig(path)
}

// ProjectInfo describes the local project's registry bindings. A missing
// config is reported as HasConfig=false rather than an error.
func (c *Client) ProjectInfo() (*ProjectInfo, error) {
	info := &ProjectInfo{
		ConfigPath:   c.projectConfigPath(),
		RegistryURLs: map[string]string{},
	}

	cfg, err := c.loadProject()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return info, nil
	}

	info.HasConfig = true
	info.RegistryURLs = cfg.RegistryURLs()
	for name := range cfg.Registries {
		info.Registries = append(info.Registries, name)
	}
	sort.Strings(info.Registries)
	return info, nil
}
