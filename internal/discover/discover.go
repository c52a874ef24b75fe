// Package discover builds the ordered tree of documentable module units.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"docmark/internal/model"
)

// Unit is one documentable module tagged with its logical position.
type Unit struct {
	Path           model.ModulePath
	Rel            string // source file path relative to the target, "" when the target is the file
	Abs            string
	IsPackageIndex bool
}

// Options restricts discovery.
type Options struct {
	ExcludeDirs  []glob.Glob
	ExcludeFiles []glob.Glob
}

const packageEntry = "__init__.py"

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// Target discovers the documentable modules of path, which may be a single
// .py file, a package directory (containing __init__.py) or a plain
// directory of modules and packages. It returns the units in deterministic
// order (stable sort by full dotted path) together with the root module
// path; the root path is empty for a plain directory target.
func Target(path string, opts Options) ([]Unit, model.ModulePath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", err
	}

	if !info.IsDir() {
		name := filepath.Base(abs)
		stem, ok := strings.CutSuffix(name, ".py")
		if !ok {
			return nil, "", fmt.Errorf("%s: not a Python module", path)
		}
		if !isIdentifier(stem) {
			return nil, "", fmt.Errorf("%s: module name is not an identifier", path)
		}
		unit := Unit{Path: model.ModulePath(stem), Abs: abs}
		return []Unit{unit}, unit.Path, nil
	}

	w := &walker{opts: opts, gitignore: loadGitignore(abs)}

	var root model.ModulePath
	if fileExists(filepath.Join(abs, packageEntry)) {
		root = model.ModulePath(filepath.Base(abs))
		w.walk(abs, "", root, true)
	} else {
		w.walk(abs, "", "", false)
	}

	sort.SliceStable(w.units, func(i, j int) bool {
		return w.units[i].Path < w.units[j].Path
	})
	return w.units, root, nil
}

type walker struct {
	opts      Options
	gitignore *ignore.GitIgnore
	units     []Unit
}

// walk descends depth-first with children visited in name order. A package
// directory contributes its own index unit before its children; a plain
// directory contributes no unit but its documentable descendants are still
// discovered.
func (w *walker) walk(absDir, relDir string, prefix model.ModulePath, isPackage bool) {
	if isPackage {
		rel := filepath.Join(relDir, packageEntry)
		w.units = append(w.units, Unit{
			Path:           prefix,
			Rel:            rel,
			Abs:            filepath.Join(absDir, packageEntry),
			IsPackageIndex: true,
		})
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	// Directories first: a package shadows a sibling module of the same
	// name, as it does on Python's import path.
	packages := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
			continue
		}
		if !isIdentifier(name) || matchesAny(w.opts.ExcludeDirs, name) {
			continue
		}
		rel := filepath.Join(relDir, name)
		if w.ignored(rel) {
			continue
		}
		child := filepath.Join(absDir, name)
		isPkg := fileExists(filepath.Join(child, packageEntry))
		if isPkg {
			packages[name] = true
		}
		w.walk(child, rel, prefix.Child(name), isPkg)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if entry.Type()&os.ModeSymlink != 0 || strings.HasPrefix(name, ".") {
			continue
		}
		stem, ok := strings.CutSuffix(name, ".py")
		if !ok || strings.HasPrefix(stem, "_") || !isIdentifier(stem) {
			continue
		}
		if packages[stem] {
			continue
		}
		rel := filepath.Join(relDir, name)
		if matchesAny(w.opts.ExcludeFiles, name) || w.ignored(rel) {
			continue
		}
		w.units = append(w.units, Unit{
			Path: prefix.Child(stem),
			Rel:  rel,
			Abs:  filepath.Join(absDir, name),
		})
	}
}

func (w *walker) ignored(rel string) bool {
	return w.gitignore != nil && w.gitignore.MatchesPath(filepath.ToSlash(rel))
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
