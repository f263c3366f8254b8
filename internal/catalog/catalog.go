// Package catalog classifies registry items into semantic categories and
// enriches them with search keywords and curated use cases. Everything here
// is pure: the category table and use-case lookup are static data and no
// network or cache access happens during enrichment.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a semantic bucket used for scoring.
type Category string

const (
	CategoryForm        Category = "form"
	CategoryLayout      Category = "layout"
	CategoryNavigation  Category = "navigation"
	CategoryData        Category = "data"
	CategoryFeedback    Category = "feedback"
	CategoryOverlay     Category = "overlay"
	CategoryInteractive Category = "interactive"
	CategoryGeneral     Category = "general"
)

var titleCaser = cases.Title(language.English)

// Title returns the display form, e.g. "Navigation".
func (c Category) Title() string {
	return titleCaser.String(string(c))
}

// Rule maps a category to its trigger keywords.
type Rule struct {
	Category Category
	Triggers []string
}

// DefaultRules is the category table in precedence order: when an item
// matches several categories the earliest rule wins.
var DefaultRules = []Rule{
	{CategoryForm, []string{
		"form", "input", "validation", "textarea", "checkbox", "radio", "select",
		"combobox", "field", "label", "login", "signup", "register", "password",
		"otp", "switch", "calendar", "picker", "datepicker",
	}},
	{CategoryLayout, []string{
		"layout", "grid", "container", "section", "separator", "aspect", "resizable",
		"scroll", "hero", "header", "footer", "page", "dashboard", "stack",
	}},
	{CategoryNavigation, []string{
		"navigation", "nav", "navbar", "menubar", "breadcrumb", "pagination",
		"tabs", "sidebar", "link", "stepper",
	}},
	{CategoryData, []string{
		"table", "list", "card", "chart", "avatar", "badge", "data", "stat",
		"stats", "timeline", "tree", "kanban", "typography", "image",
	}},
	{CategoryFeedback, []string{
		"alert", "toast", "sonner", "progress", "skeleton", "spinner", "loading",
		"loader", "notification", "banner", "empty", "error",
	}},
	{CategoryOverlay, []string{
		"dialog", "modal", "popover", "tooltip", "sheet", "drawer", "dropdown",
		"context", "hover", "overlay", "lightbox",
	}},
	{CategoryInteractive, []string{
		"button", "toggle", "slider", "accordion", "collapsible", "carousel",
		"drag", "drop", "sortable", "rating", "command",
	}},
}

// minSubstringLen is the shortest trigger matched as a substring of a name.
// Shorter triggers must equal a whole name token so that "page" does not
// claim "pagination".
const minSubstringLen = 5

// categorize returns the first rule with a hit against the name and type.
func categorize(rules []Rule, name, typ string) Category {
	lowerName := strings.ToLower(name)
	tokens := Tokenize(name)
	tokens = append(tokens, Tokenize(typ)...)

	for _, rule := range rules {
		for _, trigger := range rule.Triggers {
			if len(trigger) >= minSubstringLen && strings.Contains(lowerName, trigger) {
				return rule.Category
			}
			for _, tok := range tokens {
				if tok == trigger {
					return rule.Category
				}
			}
		}
	}
	return CategoryGeneral
}

// inferCategories returns, in table order, every category whose triggers
// overlap any keyword.
func inferCategories(rules []Rule, keywords []string) []Category {
	var out []Category
	for _, rule := range rules {
		if anyOverlap(rule.Triggers, keywords) {
			out = append(out, rule.Category)
		}
	}
	return out
}

func anyOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if Overlaps(x, y) {
				return true
			}
		}
	}
	return false
}
