// Package ui renders user-facing messages for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a message.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message is a problem statement plus the next steps a user can take.
type Message struct {
	Level       Level
	Context     string
	Problem     string
	Detail      string
	Suggestions []string
	NextSteps   []string
	NoColor     bool
}

// Format renders m as a block:
//
//	✗ COMPONENT NOT FOUND: Cannot find "buton" in @shadcn.
//
//	   Did you mean: button?
//
//	   → Search the registry: uiscout search buton
func Format(m Message) string {
	var b strings.Builder

	var header, body *color.Color
	var symbol string
	switch m.Level {
	case LevelWarning:
		header = color.New(color.FgYellow, color.Bold)
		body = color.New(color.FgYellow)
		symbol = "!"
	case LevelInfo:
		header = color.New(color.FgCyan, color.Bold)
		body = color.New(color.FgCyan)
		symbol = "i"
	default:
		header = color.New(color.FgRed, color.Bold)
		body = color.New(color.FgRed)
		symbol = "✗"
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if m.NoColor {
		for _, c := range []*color.Color{header, body, yellow, cyan} {
			c.DisableColor()
		}
	}

	if m.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(m.Context), m.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}

	if m.Detail != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", m.Detail)
	}

	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.NextSteps) > 0 {
		b.WriteString("\n")
		for _, step := range m.NextSteps {
			cyan.Fprintf(&b, "   → %s\n", step)
		}
	}

	return b.String()
}

// Write writes the formatted message to w.
func Write(w io.Writer, m Message) {
	fmt.Fprint(w, Format(m))
}

// Success returns a one-line success message.
func Success(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}
