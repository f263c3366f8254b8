package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// wireItem is the loosest item shape accepted from a registry.
type wireItem struct {
	Name                 string            `json:"name"`
	Type                 string            `json:"type"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Dependencies         []string          `json:"dependencies"`
	RegistryDependencies []string          `json:"registryDependencies"`
	Files                []json.RawMessage `json:"files"`
}

// wireEnvelope covers the object shapes registries wrap catalogs in.
type wireEnvelope struct {
	Items      json.RawMessage `json:"items"`
	Components json.RawMessage `json:"components"`
	Registry   *struct {
		Items json.RawMessage `json:"items"`
	} `json:"registry"`
	Pagination *Pagination `json:"pagination"`
}

// decodeCatalog parses a catalog or search response. It accepts a bare array,
// {items:[...]}, {components:[...]}, {registry:{items:[...]}} and the search
// envelope {items, pagination}. The returned Pagination is nil unless the
// registry supplied one. Items without a name are dropped.
func decodeCatalog(body []byte) ([]ComponentItem, *Pagination, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '[':
		items, err := decodeItemList(trimmed)
		return items, nil, err
	case '{':
		var env wireEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, nil, fmt.Errorf("parsing catalog: %w", err)
		}
		var raw json.RawMessage
		switch {
		case len(env.Items) > 0:
			raw = env.Items
		case len(env.Components) > 0:
			raw = env.Components
		case env.Registry != nil && len(env.Registry.Items) > 0:
			raw = env.Registry.Items
		default:
			return nil, nil, fmt.Errorf("catalog object has no items")
		}
		items, err := decodeItemList(raw)
		return items, env.Pagination, err
	default:
		return nil, nil, fmt.Errorf("unexpected catalog format")
	}
}

func decodeItemList(raw []byte) ([]ComponentItem, error) {
	var wire []wireItem
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("parsing catalog items: %w", err)
	}
	items := make([]ComponentItem, 0, len(wire))
	for _, w := range wire {
		if strings.TrimSpace(w.Name) == "" {
			continue
		}
		items = append(items, w.toItem())
	}
	return items, nil
}

// decodeItem parses a single-item response.
func decodeItem(body []byte) (ComponentItem, error) {
	var w wireItem
	if err := json.Unmarshal(bytes.TrimSpace(body), &w); err != nil {
		return ComponentItem{}, fmt.Errorf("parsing component: %w", err)
	}
	return w.toItem(), nil
}

func (w wireItem) toItem() ComponentItem {
	item := ComponentItem{
		Name:                 strings.TrimSpace(w.Name),
		Type:                 w.Type,
		Title:                w.Title,
		Description:          w.Description,
		Dependencies:         w.Dependencies,
		RegistryDependencies: w.RegistryDependencies,
	}
	for _, raw := range w.Files {
		if f, ok := decodeFile(raw); ok {
			item.Files = append(item.Files, f)
		}
	}
	return item
}

// decodeFile accepts either a bare path string or a file object.
func decodeFile(raw json.RawMessage) (File, bool) {
	var path string
	if err := json.Unmarshal(raw, &path); err == nil {
		return File{Path: path}, path != ""
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return File{}, false
	}
	return f, f.Path != ""
}
