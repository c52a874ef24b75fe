// Package pysrc parses one Python module with tree-sitter and yields its
// docstring, its declared public-name list and its top-level definitions.
package pysrc

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"docmark/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Module is the parsed representation of one source file.
type Module struct {
	Docstring string // cleaned, "" when absent
	HasAll    bool   // whether __all__ is declared
	All       []string
	Defs      []Def // source order
}

// Def is one top-level definition (or class member).
type Def struct {
	Name       string
	Kind       model.SymbolKind
	Signature  string // "(a, b)" for callables, "(Base)" for classes, "" otherwise
	Docstring  string
	Literal    string // data only: assigned expression source text
	IsProperty bool   // class members decorated with @property
	Members    []Def  // classes only
}

// Parser wraps a tree-sitter parser configured for Python.
// Not safe for concurrent use; each goroutine needs its own.
type Parser struct {
	parser *sitter.Parser
}

func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseModule parses source and extracts the module surface.
func (p *Parser) ParseModule(source []byte) (*Module, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	mod := &Module{}
	root := tree.RootNode()

	first := true
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		// Comments are extra nodes; they must not count as the first
		// statement or a leading license header would hide the docstring.
		if stmt.Type() == "comment" {
			continue
		}
		if first {
			first = false
			if doc, ok := docstringStmt(stmt, source); ok {
				mod.Docstring = doc
				continue
			}
		}
		p.extractStatement(stmt, source, mod)
	}

	return mod, nil
}

func (p *Parser) extractStatement(stmt *sitter.Node, source []byte, mod *Module) {
	switch stmt.Type() {
	case "function_definition":
		mod.Defs = append(mod.Defs, functionDef(stmt, source, false))
	case "class_definition":
		mod.Defs = append(mod.Defs, classDef(stmt, source))
	case "decorated_definition":
		if def, ok := decoratedDef(stmt, source); ok {
			mod.Defs = append(mod.Defs, def)
		}
	case "expression_statement":
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			child := stmt.NamedChild(i)
			if child.Type() != "assignment" {
				continue
			}
			p.extractAssignment(child, source, mod)
		}
	}
}

func (p *Parser) extractAssignment(node *sitter.Node, source []byte, mod *Module) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || left.Type() != "identifier" {
		return
	}
	name := nodeText(left, source)

	if name == "__all__" {
		mod.HasAll = true
		mod.All = append(mod.All, stringElements(right, source)...)
		return
	}

	literal := ""
	if right != nil {
		literal = nodeText(right, source)
	}
	mod.Defs = append(mod.Defs, Def{
		Name:    name,
		Kind:    model.Data,
		Literal: literal,
	})
}

func functionDef(node *sitter.Node, source []byte, isProperty bool) Def {
	def := Def{
		Kind:       model.Function,
		IsProperty: isProperty,
	}
	if name := node.ChildByFieldName("name"); name != nil {
		def.Name = nodeText(name, source)
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		def.Signature = collapseWhitespace(nodeText(params, source))
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		def.Signature += " -> " + collapseWhitespace(nodeText(ret, source))
	}
	def.Docstring = bodyDocstring(node, source)
	return def
}

func classDef(node *sitter.Node, source []byte) Def {
	def := Def{Kind: model.Class}
	if name := node.ChildByFieldName("name"); name != nil {
		def.Name = nodeText(name, source)
	}
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		def.Signature = collapseWhitespace(nodeText(supers, source))
	}
	def.Docstring = bodyDocstring(node, source)
	def.Members = classMembers(node, source)
	return def
}

// decoratedDef unwraps a decorated_definition. Property decorators are
// remembered so the renderer can title the member accordingly.
func decoratedDef(node *sitter.Node, source []byte) (Def, bool) {
	isProperty := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" && strings.TrimPrefix(nodeText(child, source), "@") == "property" {
			isProperty = true
		}
	}
	inner := node.ChildByFieldName("definition")
	if inner == nil {
		return Def{}, false
	}
	switch inner.Type() {
	case "function_definition":
		return functionDef(inner, source, isProperty), true
	case "class_definition":
		return classDef(inner, source), true
	}
	return Def{}, false
}

// classMembers collects the public functions and properties of a class body
// in source order. __init__ counts as public; other dunder and underscore
// names do not.
func classMembers(classNode *sitter.Node, source []byte) []Def {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var members []Def
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		var def Def
		switch stmt.Type() {
		case "function_definition":
			def = functionDef(stmt, source, false)
		case "decorated_definition":
			inner, ok := decoratedDef(stmt, source)
			if !ok || inner.Kind != model.Function {
				continue
			}
			def = inner
		default:
			continue
		}
		if def.Name != "__init__" && strings.HasPrefix(def.Name, "_") {
			continue
		}
		members = append(members, def)
	}
	return members
}

// bodyDocstring returns the cleaned docstring of a definition's body, or "".
func bodyDocstring(defNode *sitter.Node, source []byte) string {
	body := defNode.ChildByFieldName("body")
	if body == nil {
		return ""
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		doc, _ := docstringStmt(stmt, source)
		return doc
	}
	return ""
}

// docstringStmt reports whether stmt is a bare string expression and returns
// its cleaned literal value.
func docstringStmt(stmt *sitter.Node, source []byte) (string, bool) {
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
		return "", false
	}
	str := stmt.NamedChild(0)
	switch str.Type() {
	case "string":
		return Cleandoc(stringLiteral(nodeText(str, source))), true
	case "concatenated_string":
		var parts []string
		for i := 0; i < int(str.NamedChildCount()); i++ {
			child := str.NamedChild(i)
			if child.Type() == "string" {
				parts = append(parts, stringLiteral(nodeText(child, source)))
			}
		}
		return Cleandoc(strings.Join(parts, "")), true
	}
	return "", false
}

// stringElements returns the string values of a list or tuple literal, in
// declaration order. Non-string elements are ignored.
func stringElements(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "list", "tuple":
	default:
		return nil
	}
	var values []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "string" {
			values = append(values, stringLiteral(nodeText(child, source)))
		}
	}
	return values
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
