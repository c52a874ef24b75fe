// Package xref resolves docstring cross-references.
//
// The reference grammar is deliberately small: [link text](#name), where
// name is a bare symbol name, a Class.member pair or a module-qualified
// dotted name. Resolving it is a name lookup over the extracted symbols, not
// a Markdown parsing problem, and happens in a single pass after every
// module record exists.
package xref

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"docmark/internal/diag"
	"docmark/internal/model"
	"docmark/internal/render"
)

var refPattern = regexp.MustCompile(`\[([^\]\n]*)\]\(#([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\)`)

// Target is the resolved location of one symbol section.
type Target struct {
	Qualified string // module-qualified name, used in ambiguity reports
	File      string // destination-relative output path
	Anchor    string
}

// Table maps resolvable names to their targets. Built once after extraction;
// read-only during resolution.
type Table struct {
	bare      map[string][]Target
	qualified map[string][]Target
}

// BuildTable indexes every extracted symbol (and class member) by bare name
// and by module-qualified name. Only symbols that actually exist are added,
// so a dangling reference simply finds nothing.
func BuildTable(records []*model.ModuleRecord, outPaths map[model.ModulePath]string) *Table {
	t := &Table{
		bare:      make(map[string][]Target),
		qualified: make(map[string][]Target),
	}
	for _, rec := range records {
		file := outPaths[rec.Path]
		for i := range rec.Symbols {
			sym := &rec.Symbols[i]
			t.add(rec.Path, sym.Name, Target{
				File:   file,
				Anchor: Anchor(render.SymbolHeading(sym)),
			})
			for j := range sym.Members {
				member := &sym.Members[j]
				t.add(rec.Path, sym.Name+"."+member.Name, Target{
					File:   file,
					Anchor: Anchor(render.MemberHeading(member)),
				})
			}
		}
	}
	return t
}

func (t *Table) add(module model.ModulePath, name string, target Target) {
	target.Qualified = string(module) + "." + name
	t.bare[name] = append(t.bare[name], target)
	t.qualified[target.Qualified] = append(t.qualified[target.Qualified], target)
}

// Resolve rewrites every reference in the records' docstrings in place. All
// fields other than docstring text are preserved. Each dangling or ambiguous
// occurrence is reported; its markup is replaced by the bare link text so no
// raw reference syntax survives into the rendered output.
func (t *Table) Resolve(records []*model.ModuleRecord, outPaths map[model.ModulePath]string, reports *diag.List) {
	for _, rec := range records {
		file := outPaths[rec.Path]
		rec.Docstring = t.rewrite(rec.Path, file, rec.Docstring, "module docstring", reports)
		for i := range rec.Symbols {
			sym := &rec.Symbols[i]
			where := fmt.Sprintf("docstring of %s", sym.Name)
			sym.Docstring = t.rewrite(rec.Path, file, sym.Docstring, where, reports)
			for j := range sym.Members {
				member := &sym.Members[j]
				where := fmt.Sprintf("docstring of %s.%s", sym.Name, member.Name)
				member.Docstring = t.rewrite(rec.Path, file, member.Docstring, where, reports)
			}
		}
	}
}

func (t *Table) rewrite(module model.ModulePath, file, text, where string, reports *diag.List) string {
	if text == "" {
		return text
	}
	return refPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := refPattern.FindStringSubmatch(match)
		linkText, name := sub[1], sub[2]

		candidates := t.lookup(module, name)
		switch len(candidates) {
		case 0:
			reports.Add(diag.DanglingReference, string(module),
				"reference %q in %s matches no documented symbol", name, where)
			return linkText
		case 1:
			target := candidates[0]
			href := "#" + target.Anchor
			if target.File != file {
				href = relPath(file, target.File) + "#" + target.Anchor
			}
			return fmt.Sprintf("[%s](%s)", linkText, href)
		default:
			quals := make([]string, len(candidates))
			for i, c := range candidates {
				quals[i] = c.Qualified
			}
			sort.Strings(quals)
			reports.Add(diag.AmbiguousReference, string(module),
				"reference %q in %s is ambiguous, qualify it: %s", name, where, strings.Join(quals, ", "))
			return linkText
		}
	})
}

// lookup applies the resolution policy: same module first, then bare names
// globally, then module-qualified names. A qualified name that still matches
// more than one symbol stays ambiguous; no tie-breaking order is guessed.
func (t *Table) lookup(module model.ModulePath, name string) []Target {
	if c := t.qualified[string(module)+"."+name]; len(c) > 0 {
		return c[:1]
	}
	if c := t.bare[name]; len(c) > 0 {
		return c
	}
	return t.qualified[name]
}

// Anchor derives the stable fragment identifier for a heading, following the
// GitHub slug rule: lowercase, punctuation dropped, spaces to hyphens.
func Anchor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// relPath returns the link from one destination-relative file to another.
func relPath(from, to string) string {
	fromParts := strings.Split(from, "/")
	fromParts = fromParts[:len(fromParts)-1] // directory of from
	toParts := strings.Split(to, "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}
	return strings.Repeat("../", len(fromParts)-common) + strings.Join(toParts[common:], "/")
}
