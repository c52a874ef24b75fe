package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmark/internal/diag"
	"docmark/internal/discover"
	"docmark/internal/model"
	"docmark/internal/pysrc"
)

func parse(t *testing.T, source string) *pysrc.Module {
	t.Helper()
	mod, err := pysrc.NewParser().ParseModule([]byte(source))
	require.NoError(t, err)
	return mod
}

func TestRecordDeclaredOrder(t *testing.T) {
	t.Parallel()

	mod := parse(t, `"""Doc."""

__all__ = ['zebra', 'alpha']

def alpha():
    """A."""

def zebra():
    """Z."""
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "m"}, mod, nil, reports)

	require.Equal(t, 0, reports.Len())
	require.Len(t, rec.Symbols, 2)
	// Declared order, not definition or alphabetical order.
	assert.Equal(t, "zebra", rec.Symbols[0].Name)
	assert.Equal(t, "alpha", rec.Symbols[1].Name)
	assert.Equal(t, model.ModulePath("m"), rec.Symbols[0].Module)
}

func TestRecordNoDeclarationNoSymbols(t *testing.T) {
	t.Parallel()

	mod := parse(t, `"""Documented only by its docstring."""

def visible():
    """Has a docstring but is not declared."""
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "m"}, mod, nil, reports)

	assert.Empty(t, rec.Symbols)
	assert.Equal(t, 0, reports.Len())
	assert.Equal(t, "Documented only by its docstring.", rec.Docstring)
	assert.Equal(t, "Documented only by its docstring.", rec.Summary)
}

func TestRecordDeclaredSymbolMissing(t *testing.T) {
	t.Parallel()

	mod := parse(t, `__all__ = ['present', 'ghost']

def present():
    """Here."""
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "pkg.mod"}, mod, nil, reports)

	require.Len(t, rec.Symbols, 1)
	assert.Equal(t, "present", rec.Symbols[0].Name)

	require.Equal(t, 1, reports.Len())
	r := reports.Reports()[0]
	assert.Equal(t, diag.DeclaredSymbolMissing, r.Kind)
	assert.Equal(t, "pkg.mod", r.Module)
	assert.Contains(t, r.Detail, "ghost")
}

func TestRecordSubmoduleNames(t *testing.T) {
	t.Parallel()

	mod := parse(t, `"""Package."""

__all__ = ['util', 'thing']

def thing():
    """T."""
`)

	children := map[string]bool{"util": true}
	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "pkg", IsPackageIndex: true}, mod, children, reports)

	assert.Equal(t, 0, reports.Len())
	assert.Equal(t, []string{"util"}, rec.Submodules)
	require.Len(t, rec.Symbols, 1)
	assert.Equal(t, "thing", rec.Symbols[0].Name)
	assert.True(t, rec.IsPackageIndex)
}

func TestRecordDuplicateDeclaration(t *testing.T) {
	t.Parallel()

	mod := parse(t, `__all__ = ['f', 'f']

def f():
    """Once."""
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "m"}, mod, nil, reports)

	assert.Len(t, rec.Symbols, 1)
	assert.Equal(t, 0, reports.Len())
}

func TestRecordRedefinedNameLastWins(t *testing.T) {
	t.Parallel()

	mod := parse(t, `__all__ = ['f']

def f():
    """Shadowed."""

def f(x):
    """Effective."""
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "m"}, mod, nil, reports)

	require.Len(t, rec.Symbols, 1)
	assert.Equal(t, "(x)", rec.Symbols[0].Signature)
	assert.Equal(t, "Effective.", rec.Symbols[0].Docstring)
	assert.Equal(t, 0, reports.Len())
}

func TestRecordDataSymbol(t *testing.T) {
	t.Parallel()

	mod := parse(t, `__all__ = ['VERSION']

VERSION = '1.0'
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "m"}, mod, nil, reports)

	require.Len(t, rec.Symbols, 1)
	sym := rec.Symbols[0]
	assert.Equal(t, model.Data, sym.Kind)
	assert.Equal(t, "'1.0'", sym.Literal)
}

func TestRecordClassMembers(t *testing.T) {
	t.Parallel()

	mod := parse(t, `__all__ = ['Greeter']

class Greeter:
    """G."""

    def greet(self):
        """Hello."""
`)

	reports := &diag.List{}
	rec := Record(discover.Unit{Path: "m"}, mod, nil, reports)

	require.Len(t, rec.Symbols, 1)
	require.Len(t, rec.Symbols[0].Members, 1)
	assert.Equal(t, "greet", rec.Symbols[0].Members[0].Name)
}
