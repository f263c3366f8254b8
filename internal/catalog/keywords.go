package catalog

import (
	"strings"
	"unicode"

	"github.com/agentx-labs/uiscout/internal/registry"
)

// minOverlapLen is the length the shorter side of a substring overlap must
// reach; it keeps "ui" from matching "build".
const minOverlapLen = 3

var stopWords = toSet(
	"a", "an", "and", "are", "as", "at", "be", "by", "can", "for", "from",
	"has", "have", "i", "if", "in", "into", "is", "it", "its", "me", "my",
	"of", "on", "or", "our", "so", "that", "the", "their", "them", "then",
	"there", "these", "this", "to", "up", "us", "was", "we", "what", "when",
	"where", "which", "while", "who", "will", "with", "you", "your",
	"all", "any", "some", "should", "would", "could", "also", "just", "very",
	"build", "create", "make", "need", "needs", "want", "add", "implement",
	"use", "using", "new", "get", "help", "please", "like", "app",
	"component", "components",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsStopWord reports whether w is ignored when extracting keywords.
func IsStopWord(w string) bool {
	return stopWords[strings.ToLower(w)]
}

// Tokenize lowercases s and splits it on non-alphanumeric boundaries.
// Single-character tokens are dropped.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

// TaskKeywords extracts the deduplicated, stop-word-free tokens of a free-text
// task description in order of first appearance.
func TaskKeywords(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		if stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// ExtractKeywords returns the item's name tokens followed by the
// stop-word-filtered tokens of its description, lowercased and deduplicated.
func ExtractKeywords(item registry.ComponentItem) []string {
	_, name := registry.SplitName(item.Name)

	var out []string
	seen := make(map[string]bool)
	for _, tok := range Tokenize(name) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	for _, tok := range TaskKeywords(item.Description) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// Overlaps reports a bidirectional substring match between a and b, where
// the shorter of the two is at least minOverlapLen long.
func Overlaps(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) < minOverlapLen {
		return false
	}
	return strings.Contains(b, a)
}
