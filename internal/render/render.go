// Package render produces the Markdown text for one resolved module record.
//
// Rendering is a pure function of the record: identical input yields
// byte-identical output.
package render

import (
	"fmt"
	"strings"

	"docmark/internal/model"
)

// Module renders the full Markdown document for rec.
func Module(rec *model.ModuleRecord) string {
	var parts []string

	title := rec.Path.Leaf()
	if summary := cleanSummary(rec.Summary); summary != "" {
		title += " - " + summary
	}
	parts = append(parts, "# "+title)

	if body := docBody(rec.Docstring); body != "" {
		parts = append(parts, body)
	}

	for i := range rec.Symbols {
		parts = append(parts, symbolParts(&rec.Symbols[i])...)
	}

	return strings.Join(parts, "\n\n") + "\n"
}

func symbolParts(sym *model.Symbol) []string {
	parts := []string{"## " + SymbolHeading(sym)}

	switch sym.Kind {
	case model.Data:
		parts = append(parts, fmt.Sprintf("```\n%s = %s\n```", sym.Name, sym.Literal))
		if doc := strings.TrimSpace(sym.Docstring); doc != "" {
			parts = append(parts, doc)
		}
	default:
		if doc := strings.TrimSpace(sym.Docstring); doc != "" {
			parts = append(parts, doc)
		}
		for i := range sym.Members {
			member := &sym.Members[i]
			parts = append(parts, "### "+MemberHeading(member))
			if doc := strings.TrimSpace(member.Docstring); doc != "" {
				parts = append(parts, doc)
			}
		}
	}
	return parts
}

// SymbolHeading returns the heading text for a symbol section. Anchors are
// derived from this text, so it must be stable across runs.
func SymbolHeading(sym *model.Symbol) string {
	switch sym.Kind {
	case model.Class:
		return "class " + sym.Name + sym.Signature
	case model.Data:
		return sym.Name
	default:
		return sym.Name + sym.Signature
	}
}

// MemberHeading returns the heading text for a class member subsection.
func MemberHeading(m *model.Member) string {
	if m.IsProperty {
		return fmt.Sprintf("The %s property", m.Name)
	}
	return m.Name + m.Signature
}

// docBody returns the docstring without its first line.
func docBody(doc string) string {
	_, rest, found := strings.Cut(doc, "\n")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

// cleanSummary lowercases a Capitalized first word and strips trailing
// punctuation, so "Print Hello World!" titles as "print Hello World".
func cleanSummary(line string) string {
	line = strings.TrimRight(line, ".?!")
	if line == "" {
		return ""
	}
	first, rest, _ := strings.Cut(line, " ")
	if isCapitalized(first) {
		first = strings.ToLower(first)
	}
	if rest == "" {
		return first
	}
	return first + " " + rest
}

func isCapitalized(word string) bool {
	if word == "" {
		return false
	}
	if word[0] < 'A' || word[0] > 'Z' {
		return false
	}
	return word[1:] == strings.ToLower(word[1:])
}
