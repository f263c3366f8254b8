package catalog

import "github.com/agentx-labs/uiscout/internal/registry"

// Manager categorizes and enriches registry items. The zero value is not
// usable; construct with NewManager.
type Manager struct {
	rules    []Rule
	useCases map[string][]string
}

// NewManager returns a Manager using DefaultRules and the built-in use-case
// lookup.
func NewManager() *Manager {
	return &Manager{rules: DefaultRules, useCases: defaultUseCases}
}

// NewManagerWith returns a Manager with custom rules and use cases. A nil
// argument selects the built-in value.
func NewManagerWith(rules []Rule, useCases map[string][]string) *Manager {
	m := NewManager()
	if rules != nil {
		m.rules = rules
	}
	if useCases != nil {
		m.useCases = useCases
	}
	return m
}

// Rules returns the category table in precedence order.
func (m *Manager) Rules() []Rule {
	return m.rules
}

// Categorize assigns one category to a component from its name and
// registry type. No match yields CategoryGeneral.
func (m *Manager) Categorize(name, typ string) Category {
	_, bare := registry.SplitName(name)
	return categorize(m.rules, bare, typ)
}

// InferCategories returns the categories suggested by a set of task keywords.
func (m *Manager) InferCategories(keywords []string) []Category {
	return inferCategories(m.rules, keywords)
}

// Metadata returns curated use cases for a component, if any.
func (m *Manager) Metadata(name string) (*registry.ItemMetadata, bool) {
	return metadataFor(m.useCases, name)
}

// Enrich returns a copy of item with category, keywords and known use cases.
// Existing metadata is kept when the lookup has nothing for the name.
func (m *Manager) Enrich(item registry.ComponentItem) registry.ComponentItem {
	out := item
	out.Category = string(m.Categorize(item.Name, item.Type))
	out.Keywords = ExtractKeywords(item)
	if md, ok := m.Metadata(item.Name); ok {
		out.Metadata = md
	}
	return out
}
