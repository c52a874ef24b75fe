// Package write maps module paths to mirrored destination paths and writes
// the rendered output tree.
package write

import (
	"os"
	"path"
	"path/filepath"

	"docmark/internal/diag"
	"docmark/internal/discover"
	"docmark/internal/model"
)

const indexFile = "README.md"

// OutputPath returns the destination-relative (slash-separated) path for a
// unit. The documentation root itself maps to README.md at the destination
// root; a descendant package maps to <rel>/README.md and a leaf module to
// <rel>.md, where <rel> is the module path relative to the root.
func OutputPath(u discover.Unit, root model.ModulePath) string {
	parts := u.Path.Parts()
	rootParts := root.Parts()
	if len(rootParts) > 0 && len(parts) >= len(rootParts) {
		parts = parts[len(rootParts):]
	}
	if len(parts) == 0 {
		return indexFile
	}
	if u.IsPackageIndex {
		return path.Join(append(parts, indexFile)...)
	}
	return path.Join(parts...) + ".md"
}

// Entry is one rendered file to be written.
type Entry struct {
	Module model.ModulePath
	Source string // printable source path
	Dest   string // destination-relative slash path
	Text   string
}

// Tree writes every entry under destRoot, creating directories as needed and
// overwriting existing files. A failure on one entry is reported and the
// remaining entries are still attempted. announce is called after each
// successful write; the number of files written is returned.
func Tree(destRoot string, entries []Entry, announce func(Entry), reports *diag.List) int {
	written := 0
	for _, e := range entries {
		full := filepath.Join(destRoot, filepath.FromSlash(e.Dest))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			reports.Add(diag.WriteFailure, string(e.Module), "%v", err)
			continue
		}
		if err := os.WriteFile(full, []byte(e.Text), 0o644); err != nil {
			reports.Add(diag.WriteFailure, string(e.Module), "%v", err)
			continue
		}
		written++
		if announce != nil {
			announce(e)
		}
	}
	return written
}
