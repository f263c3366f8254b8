package catalog

import (
	"strings"

	"github.com/agentx-labs/uiscout/internal/registry"
)

// defaultUseCases is the curated use-case lookup keyed by bare component name.
var defaultUseCases = map[string][]string{
	"accordion":       {"FAQ sections", "Collapsible settings groups"},
	"alert":           {"Inline status messages", "Validation summaries"},
	"alert-dialog":    {"Destructive action confirmation"},
	"avatar":          {"User profile pictures", "Comment authors"},
	"badge":           {"Status labels", "Counts and tags"},
	"breadcrumb":      {"Hierarchical page location"},
	"button":          {"Form submission", "Primary and secondary actions"},
	"calendar":        {"Date selection", "Scheduling views"},
	"card":            {"Content grouping", "Dashboard tiles", "Product listings"},
	"chart":           {"Analytics dashboards", "Metric trends"},
	"checkbox":        {"Multi-select options", "Terms acceptance"},
	"command":         {"Command palettes", "Searchable menus"},
	"data-table":      {"Sortable and filterable records", "Admin listings"},
	"date-picker":     {"Booking forms", "Date range filters"},
	"dialog":          {"Modal forms", "Confirmations", "Detail views"},
	"drawer":          {"Mobile action panels"},
	"dropdown-menu":   {"Row actions", "Account menus"},
	"form":            {"Validated user input", "Settings pages", "Sign-up and login"},
	"input":           {"Text entry", "Search boxes"},
	"login-form":      {"Authentication screens"},
	"navigation-menu": {"Site headers", "Marketing navigation"},
	"pagination":      {"Paged result lists"},
	"popover":         {"Inline editors", "Contextual details"},
	"progress":        {"Upload progress", "Multi-step completion"},
	"select":          {"Single choice from a list"},
	"sheet":           {"Side panels", "Mobile navigation"},
	"sidebar":         {"Application navigation", "Dashboard shells"},
	"skeleton":        {"Loading placeholders"},
	"sonner":          {"Transient notifications"},
	"switch":          {"Boolean settings"},
	"table":           {"Tabular data display"},
	"tabs":            {"Switching between related views"},
	"textarea":        {"Multi-line text entry", "Comments"},
	"toast":           {"Transient notifications"},
	"tooltip":         {"Icon explanations", "Truncated text hints"},
}

// metadataFor looks up use cases for a (possibly namespaced) component name.
func metadataFor(useCases map[string][]string, name string) (*registry.ItemMetadata, bool) {
	_, bare := registry.SplitName(name)
	cases, ok := useCases[strings.ToLower(bare)]
	if !ok || len(cases) == 0 {
		return nil, false
	}
	out := make([]string, len(cases))
	copy(out, cases)
	return &registry.ItemMetadata{UseCases: out}, true
}
