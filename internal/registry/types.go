package registry

import "strings"

// DefaultRegistryName is the name under which the built-in registry is addressed.
const DefaultRegistryName = "@shadcn"

// ComponentItem is one catalog entry returned by a registry.
type ComponentItem struct {
	Name                 string   `json:"name"`
	Type                 string   `json:"type,omitempty"`
	Title                string   `json:"title,omitempty"`
	Description          string   `json:"description,omitempty"`
	Registry             string   `json:"registry,omitempty"` // registry that returned the item
	Dependencies         []string `json:"dependencies,omitempty"`
	RegistryDependencies []string `json:"registryDependencies,omitempty"`
	Files                []File   `json:"files,omitempty"`

	// Set by catalog enrichment, never by a registry.
	Category string        `json:"category,omitempty"`
	Keywords []string      `json:"keywords,omitempty"`
	Metadata *ItemMetadata `json:"metadata,omitempty"`
}

// File is a source file shipped with a component.
type File struct {
	Path    string `json:"path"`
	Type    string `json:"type,omitempty"`
	Target  string `json:"target,omitempty"`
	Content string `json:"content,omitempty"`
}

// ItemMetadata holds curated information attached during enrichment.
type ItemMetadata struct {
	UseCases []string `json:"useCases,omitempty"`
}

// QualifiedName returns the name to hand to the installer: items from named,
// non-default registries are prefixed with the registry namespace.
func (c ComponentItem) QualifiedName() string {
	if c.Registry == "" || c.Registry == DefaultRegistryName || strings.HasPrefix(c.Name, "@") {
		return c.Name
	}
	return c.Registry + "/" + c.Name
}

// Pagination describes the window returned by a search.
type Pagination struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// SearchOptions controls the window requested from a search.
type SearchOptions struct {
	Offset int
	Limit  int
}

// SearchResult is the outcome of a search call.
type SearchResult struct {
	Items      []ComponentItem `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// Resolution reports a named registry that was reached successfully. It is
// returned instead of written anywhere so the caller decides what to record.
type Resolution struct {
	Name     string
	URL      string
	Verified bool
}

// ProjectInfo describes the registry bindings of the local project.
type ProjectInfo struct {
	HasConfig    bool              `json:"hasConfig"`
	ConfigPath   string            `json:"configPath,omitempty"`
	Registries   []string          `json:"registries"`
	RegistryURLs map[string]string `json:"registryUrls"`
}

// Enricher attaches derived fields to items. The catalog package provides
// the production implementation; a nil Enricher leaves items untouched.
type Enricher interface {
	Enrich(item ComponentItem) ComponentItem
}

// SplitName splits a namespaced component name ("@acme/button") into its
// registry and item parts. Plain names return an empty registry.
func SplitName(name string) (registryName, item string) {
	if strings.HasPrefix(name, "@") {
		if i := strings.Index(name, "/"); i > 0 {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

// NormalizeRegistryName adds the leading "@" registries are keyed by.
func NormalizeRegistryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "@") {
		return name
	}
	return "@" + name
}
