// Package diag accumulates per-module error reports for a documentation run.
//
// All report kinds except DiscoveryFailure are collected and printed as a
// batch at the end of the run; the run still documents unaffected modules but
// exits non-zero when the set is non-empty. DiscoveryFailure is fatal and is
// returned as an ordinary error before any output is produced.
package diag

import (
	"fmt"
	"io"
)

// Kind classifies a report.
type Kind string

const (
	DeclaredSymbolMissing Kind = "declared-symbol-missing"
	DanglingReference     Kind = "dangling-reference"
	AmbiguousReference    Kind = "ambiguous-reference"
	WriteFailure          Kind = "write-failure"
	ExtractFailure        Kind = "extract-failure"
)

// Report is one accumulated error condition.
type Report struct {
	Kind   Kind
	Module string // dotted module path, may be empty for write failures
	Detail string
}

func (r Report) String() string {
	if r.Module == "" {
		return fmt.Sprintf("%s: %s", r.Kind, r.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", r.Kind, r.Module, r.Detail)
}

// List collects reports in the order they occur.
type List struct {
	reports []Report
}

func (l *List) Add(kind Kind, module, format string, args ...any) {
	l.reports = append(l.reports, Report{
		Kind:   kind,
		Module: module,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Merge appends all reports from other, preserving order.
func (l *List) Merge(other *List) {
	l.reports = append(l.reports, other.reports...)
}

func (l *List) Len() int { return len(l.reports) }

func (l *List) Reports() []Report { return l.reports }

// Print writes one line per report.
func (l *List) Print(w io.Writer) {
	for _, r := range l.reports {
		fmt.Fprintln(w, r.String())
	}
}
