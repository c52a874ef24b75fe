// Package model defines core data structures for docmark.
package model

import "strings"

// ModulePath is the dotted logical position of a module, e.g. "pkg.sub".
// The empty path is only used as the root of a plain (non-package) target
// directory and never names a module itself.
type ModulePath string

// Parts splits the path on dots. The empty path has no parts.
func (p ModulePath) Parts() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Leaf returns the last dotted component.
func (p ModulePath) Leaf() string {
	parts := p.Parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Child returns the path extended by one component.
func (p ModulePath) Child(name string) ModulePath {
	if p == "" {
		return ModulePath(name)
	}
	return ModulePath(string(p) + "." + name)
}

// SymbolKind indicates what a documented symbol is.
type SymbolKind string

const (
	Function SymbolKind = "function"
	Class    SymbolKind = "class"
	Data     SymbolKind = "data"
)

// Member is a documented entry inside a class body.
type Member struct {
	Name       string
	Signature  string // parenthesized parameter text, "" for properties
	Docstring  string
	IsProperty bool
}

// Symbol is one publicly documented unit within a module. A Symbol exists
// only if its name appears in the module's declared public-name list.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Signature string // "(a, b)" for callables, base list for classes, "" otherwise
	Docstring string
	Literal   string   // data only: assigned expression source text
	Members   []Member // classes only, source order
	Module    ModulePath
}

// ModuleRecord is one documented module. It is created once by the extractor
// and immutable afterwards except for in-place docstring rewriting by the
// cross-reference resolver.
type ModuleRecord struct {
	Path           ModulePath
	IsPackageIndex bool
	Summary        string // first docstring line
	Docstring      string // full module docstring, cleaned
	Symbols        []Symbol
	Submodules     []string // declared names that are child modules, not symbols
}
