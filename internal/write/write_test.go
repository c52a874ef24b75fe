package write

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmark/internal/diag"
	"docmark/internal/discover"
	"docmark/internal/model"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		unit discover.Unit
		root model.ModulePath
		want string
	}{
		{"root package", discover.Unit{Path: "pkg", IsPackageIndex: true}, "pkg", "README.md"},
		{"root single module", discover.Unit{Path: "hello"}, "hello", "README.md"},
		{"leaf under root", discover.Unit{Path: "pkg.sub"}, "pkg", "sub.md"},
		{"nested leaf", discover.Unit{Path: "pkg.a.b"}, "pkg", "a/b.md"},
		{"subpackage index", discover.Unit{Path: "pkg.sub", IsPackageIndex: true}, "pkg", "sub/README.md"},
		{"plain dir leaf", discover.Unit{Path: "pkg.sub"}, "", "pkg/sub.md"},
		{"plain dir package", discover.Unit{Path: "pkg", IsPackageIndex: true}, "", "pkg/README.md"},
		{"plain dir module", discover.Unit{Path: "hello"}, "", "hello.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, OutputPath(tt.unit, tt.root))
		})
	}
}

func TestTreeWritesAndCounts(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	entries := []Entry{
		{Module: "pkg", Dest: "README.md", Text: "# pkg\n"},
		{Module: "pkg.sub", Dest: "sub/README.md", Text: "# sub\n"},
		{Module: "pkg.sub.mod", Dest: "sub/mod.md", Text: "# mod\n"},
	}

	var announced []string
	reports := &diag.List{}
	written := Tree(dest, entries, func(e Entry) { announced = append(announced, e.Dest) }, reports)

	require.Equal(t, 3, written)
	require.Equal(t, 0, reports.Len())
	assert.Equal(t, []string{"README.md", "sub/README.md", "sub/mod.md"}, announced)

	data, err := os.ReadFile(filepath.Join(dest, "sub", "mod.md"))
	require.NoError(t, err)
	assert.Equal(t, "# mod\n", string(data))
}

func TestTreeOverwrites(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("old"), 0o644))

	reports := &diag.List{}
	written := Tree(dest, []Entry{{Module: "m", Dest: "README.md", Text: "new\n"}}, nil, reports)

	require.Equal(t, 1, written)
	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestTreeFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	dest := t.TempDir()
	// A file where a directory is needed makes MkdirAll fail for one entry.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "blocked"), []byte("x"), 0o644))

	entries := []Entry{
		{Module: "a", Dest: "blocked/inner.md", Text: "# a\n"},
		{Module: "b", Dest: "ok.md", Text: "# b\n"},
	}

	reports := &diag.List{}
	written := Tree(dest, entries, nil, reports)

	assert.Equal(t, 1, written)
	require.Equal(t, 1, reports.Len())
	assert.Equal(t, diag.WriteFailure, reports.Reports()[0].Kind)
	assert.Equal(t, "a", reports.Reports()[0].Module)

	if _, err := os.Stat(filepath.Join(dest, "ok.md")); err != nil {
		t.Errorf("independent entry was not written: %v", err)
	}
}
