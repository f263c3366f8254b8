package recommend

import "sort"

// Weights are the points awarded per signal. The defaults are tuning
// constants, not derived from any relevance dataset.
type Weights struct {
	ExactName      int `json:"exact_name"`
	NameContains   int `json:"name_contains"`
	DescContains   int `json:"description_contains"`
	Category       int `json:"category"`
	KeywordOverlap int `json:"keyword_overlap"`
	TypeUI         int `json:"type_ui"`
	TypeBlock      int `json:"type_block"`
}

// DefaultWeights holds the stock scoring constants.
var DefaultWeights = Weights{
	ExactName:      20,
	NameContains:   10,
	DescContains:   5,
	Category:       8,
	KeywordOverlap: 3,
	TypeUI:         2,
	TypeBlock:      1,
}

var weightFields = map[string]func(*Weights) *int{
	"exact_name":           func(w *Weights) *int { return &w.ExactName },
	"name_contains":        func(w *Weights) *int { return &w.NameContains },
	"description_contains": func(w *Weights) *int { return &w.DescContains },
	"category":             func(w *Weights) *int { return &w.Category },
	"keyword_overlap":      func(w *Weights) *int { return &w.KeywordOverlap },
	"type_ui":              func(w *Weights) *int { return &w.TypeUI },
	"type_block":           func(w *Weights) *int { return &w.TypeBlock },
}

// SignalNames returns the override names WeightsFromMap understands, sorted.
func SignalNames() []string {
	names := make([]string, 0, len(weightFields))
	for name := range weightFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WeightsFromMap overlays named overrides (as read from config) on the
// defaults. Unknown names and negative values are ignored.
func WeightsFromMap(overrides map[string]int) Weights {
	w := DefaultWeights
	for name, v := range overrides {
		field, ok := weightFields[name]
		if !ok || v < 0 {
			continue
		}
		*field(&w) = v
	}
	return w
}

// total sums the weighted signals. The type bonus only applies to items
// that already carry a relevance signal, so unrelated items stay at zero
// and are dropped.
func (w Weights) total(s signals) int {
	score := 0
	if s.exactName != "" {
		score += w.ExactName
	}
	score += w.NameContains * len(s.nameMatches)
	score += w.DescContains * len(s.descMatches)
	if s.category != "" {
		score += w.Category
	}
	score += w.KeywordOverlap * len(s.keywordPairs)

	if score == 0 {
		return 0
	}
	switch {
	case s.typeUI:
		score += w.TypeUI
	case s.typeBlock:
		score += w.TypeBlock
	}
	return score
}
