// Package recommend ranks registry items against a free-text task
// description. Scoring is a deterministic sum of independent signals; there
// is no randomness and nothing is learned.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agentx-labs/uiscout/internal/catalog"
	"github.com/agentx-labs/uiscout/internal/registry"
	"go.uber.org/zap"
)

// DefaultLimit is the number of recommendations returned when none is given.
const DefaultLimit = 10

// Score is one ranked recommendation. It is created per call and never stored.
type Score struct {
	Component registry.ComponentItem `json:"component"`
	Score     int                    `json:"score"`
	Reasons   []string               `json:"reasons"`
}

// Source supplies the catalog to rank, in the registry's natural order.
type Source interface {
	Catalog(ctx context.Context) ([]registry.ComponentItem, error)
}

// Engine scores catalog items for a task.
type Engine struct {
	source  Source
	manager *catalog.Manager
	weights Weights
	logger  *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the signal weights.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithManager sets the catalog manager used for enrichment and category
// inference.
func WithManager(m *catalog.Manager) Option {
	return func(e *Engine) {
		if m != nil {
			e.manager = m
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine reading its catalog from src.
func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{
		source:  src,
		manager: catalog.NewManager(),
		weights: DefaultWeights,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend returns at most limit items ordered by descending score.
// A task without keywords or a non-positive limit yields an empty result
// without fetching the catalog.
func (e *Engine) Recommend(ctx context.Context, task string, limit int) ([]Score, error) {
	q := e.newQuery(task)
	if limit <= 0 || len(q.keywords) == 0 {
		return []Score{}, nil
	}

	items, err := e.source.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	e.logger.Debug("ranking catalog",
		zap.Strings("keywords", q.keywords),
		zap.Int("items", len(items)))

	return e.rank(q, items, limit), nil
}

// Rank scores an already loaded catalog. It is Recommend without the fetch.
func (e *Engine) Rank(task string, items []registry.ComponentItem, limit int) []Score {
	q := e.newQuery(task)
	if limit <= 0 || len(q.keywords) == 0 {
		return []Score{}
	}
	return e.rank(q, items, limit)
}

// query holds everything derived from the task description.
type query struct {
	keywords   []string
	categories map[string]bool
}

func (e *Engine) newQuery(task string) query {
	kw := catalog.TaskKeywords(task)
	cats := make(map[string]bool)
	for _, c := range e.manager.InferCategories(kw) {
		cats[string(c)] = true
	}
	return query{keywords: kw, categories: cats}
}

func (e *Engine) rank(q query, items []registry.ComponentItem, limit int) []Score {
	scored := make([]Score, 0, len(items))
	for _, raw := range items {
		item := e.manager.Enrich(raw)
		s := e.weights.total(evaluate(item, q))
		if s == 0 {
			continue
		}
		scored = append(scored, Score{Component: item, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	// Reasons are re-derived from the same inputs so they cannot drift from
	// the score.
	for i := range scored {
		scored[i].Reasons = e.explain(scored[i].Component, q)
	}
	return scored
}

// signals records which scoring rules fired for an item.
type signals struct {
	exactName    string
	nameMatches  []string
	descMatches  []string
	category     string
	keywordPairs []string
	typeUI       bool
	typeBlock    bool
}

func (s signals) relevant() bool {
	return s.exactName != "" || len(s.nameMatches) > 0 || len(s.descMatches) > 0 ||
		s.category != "" || len(s.keywordPairs) > 0
}

func evaluate(item registry.ComponentItem, q query) signals {
	var s signals

	_, bare := registry.SplitName(item.Name)
	name := strings.ToLower(bare)
	desc := strings.ToLower(item.Description)

	for _, kw := range q.keywords {
		switch {
		case name == kw:
			s.exactName = kw
		case strings.Contains(name, kw):
			s.nameMatches = append(s.nameMatches, kw)
		}
		if desc != "" && strings.Contains(desc, kw) {
			s.descMatches = append(s.descMatches, kw)
		}
	}

	if q.categories[item.Category] {
		s.category = item.Category
	}

	for _, ik := range item.Keywords {
		for _, kw := range q.keywords {
			if catalog.Overlaps(ik, kw) {
				s.keywordPairs = append(s.keywordPairs, ik)
			}
		}
	}

	t := strings.ToLower(item.Type)
	switch {
	case strings.Contains(t, "ui"):
		s.typeUI = true
	case strings.Contains(t, "block"):
		s.typeBlock = true
	}
	return s
}

func (e *Engine) explain(item registry.ComponentItem, q query) []string {
	s := evaluate(item, q)

	var reasons []string
	if s.exactName != "" {
		reasons = append(reasons, fmt.Sprintf("Name matches %q", s.exactName))
	}
	if len(s.nameMatches) > 0 {
		reasons = append(reasons, "Name contains: "+strings.Join(s.nameMatches, ", "))
	}
	if len(s.descMatches) > 0 {
		reasons = append(reasons, "Description mentions: "+strings.Join(s.descMatches, ", "))
	}
	if s.category != "" {
		reasons = append(reasons, catalog.Category(s.category).Title()+" component")
	}
	if len(s.keywordPairs) > 0 {
		reasons = append(reasons, "Related keywords: "+strings.Join(dedupe(s.keywordPairs), ", "))
	}
	if s.relevant() {
		switch {
		case s.typeUI:
			reasons = append(reasons, "UI primitive")
		case s.typeBlock:
			reasons = append(reasons, "Ready-made block")
		}
	}
	if item.Metadata != nil && len(item.Metadata.UseCases) > 0 {
		reasons = append(reasons, "Use cases: "+strings.Join(item.Metadata.UseCases, ", "))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "General match")
	}
	return reasons
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
