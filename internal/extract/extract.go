// Package extract turns one parsed module into a ModuleRecord.
//
// Public surface is explicit: only names in the module's __all__ declaration
// become Symbols, in declared order. A module without the declaration
// contributes no symbols and is documented by its docstring alone.
package extract

import (
	"strings"

	"docmark/internal/diag"
	"docmark/internal/discover"
	"docmark/internal/model"
	"docmark/internal/pysrc"
)

// Record builds the ModuleRecord for unit. childModules holds the names of
// the unit's direct child modules and packages; a declared name matching one
// of them is a submodule listing, not a symbol. Declared names with no
// matching definition are reported as DeclaredSymbolMissing and skipped.
func Record(unit discover.Unit, mod *pysrc.Module, childModules map[string]bool, reports *diag.List) *model.ModuleRecord {
	rec := &model.ModuleRecord{
		Path:           unit.Path,
		IsPackageIndex: unit.IsPackageIndex,
		Docstring:      mod.Docstring,
		Summary:        firstLine(mod.Docstring),
	}

	if !mod.HasAll {
		return rec
	}

	// Rebinding a name replaces the earlier definition, as at runtime.
	defs := make(map[string]*pysrc.Def, len(mod.Defs))
	for i := range mod.Defs {
		defs[mod.Defs[i].Name] = &mod.Defs[i]
	}

	seen := make(map[string]bool, len(mod.All))
	for _, name := range mod.All {
		if seen[name] {
			continue
		}
		seen[name] = true
		if childModules[name] {
			rec.Submodules = append(rec.Submodules, name)
			continue
		}
		def, ok := defs[name]
		if !ok {
			reports.Add(diag.DeclaredSymbolMissing, string(unit.Path),
				"declared name %q has no definition", name)
			continue
		}
		rec.Symbols = append(rec.Symbols, symbol(unit.Path, def))
	}

	return rec
}

func symbol(module model.ModulePath, def *pysrc.Def) model.Symbol {
	sym := model.Symbol{
		Name:      def.Name,
		Kind:      def.Kind,
		Signature: def.Signature,
		Docstring: def.Docstring,
		Literal:   def.Literal,
		Module:    module,
	}
	for _, m := range def.Members {
		sym.Members = append(sym.Members, model.Member{
			Name:       m.Name,
			Signature:  m.Signature,
			Docstring:  m.Docstring,
			IsProperty: m.IsProperty,
		})
	}
	return sym
}

func firstLine(doc string) string {
	if doc == "" {
		return ""
	}
	line, _, _ := strings.Cut(doc, "\n")
	return strings.TrimSpace(line)
}
