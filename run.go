package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"docmark/internal/config"
	"docmark/internal/diag"
	"docmark/internal/discover"
	"docmark/internal/extract"
	"docmark/internal/model"
	"docmark/internal/pysrc"
	"docmark/internal/render"
	"docmark/internal/watch"
	"docmark/internal/write"
	"docmark/internal/xref"
)

type options struct {
	target       string
	outdir       string
	quiet        bool
	noSubmodules bool
	configPath   string
	watchMode    bool
}

// runDocs executes one full documentation batch: discover, extract, resolve,
// render, write. It returns a non-nil error when discovery fails outright or
// when any error report accumulated during the batch.
func runDocs(opts options, cfg *config.Config, stdout, stderr io.Writer) error {
	excludeDirs, err := config.CompileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return fmt.Errorf("exclude.dirs: %w", err)
	}
	excludeFiles, err := config.CompileGlobs(cfg.Exclude.Files)
	if err != nil {
		return fmt.Errorf("exclude.files: %w", err)
	}

	units, root, err := discover.Target(opts.target, discover.Options{
		ExcludeDirs:  excludeDirs,
		ExcludeFiles: excludeFiles,
	})
	if err != nil {
		return fmt.Errorf("discovering modules: %w", err)
	}
	if len(units) == 0 {
		return fmt.Errorf("no documentable modules found in %s", opts.target)
	}

	var undocumented []string
	if opts.noSubmodules {
		units, undocumented = dropSubmodules(units, root)
	}

	reports := &diag.List{}
	records := extractAll(units, reports)

	outPaths := make(map[model.ModulePath]string, len(units))
	for _, u := range units {
		outPaths[u.Path] = write.OutputPath(u, root)
	}

	// Every record must exist before any rendering: resolution is global.
	table := xref.BuildTable(records, outPaths)
	table.Resolve(records, outPaths, reports)

	if !opts.quiet {
		fmt.Fprintf(stdout, "Writing documentation to %s...\n", opts.outdir)
	}

	entries := make([]write.Entry, len(units))
	for i, u := range units {
		entries[i] = write.Entry{
			Module: u.Path,
			Source: displaySource(opts.target, u),
			Dest:   outPaths[u.Path],
			Text:   render.Module(records[i]),
		}
	}
	announce := func(e write.Entry) {
		if !opts.quiet {
			fmt.Fprintf(stdout, "  %s -> %s\n", e.Source, filepath.Join(opts.outdir, filepath.FromSlash(e.Dest)))
		}
	}
	written := write.Tree(opts.outdir, entries, announce, reports)

	if !opts.quiet {
		fmt.Fprintln(stdout)
		if written == 1 {
			fmt.Fprintln(stdout, "1 module was documented.")
		} else {
			fmt.Fprintf(stdout, "%d modules were documented.\n", written)
		}
		printUndocumented(stdout, undocumented)
	}

	if reports.Len() > 0 {
		reports.Print(stderr)
		if reports.Len() == 1 {
			return fmt.Errorf("1 error was reported")
		}
		return fmt.Errorf("%d errors were reported", reports.Len())
	}
	return nil
}

// extractAll parses and extracts every unit concurrently, one tree-sitter
// parser per worker, and reassembles records and reports in unit order so
// output stays deterministic.
func extractAll(units []discover.Unit, reports *diag.List) []*model.ModuleRecord {
	children := childIndex(units)

	type result struct {
		rec     *model.ModuleRecord
		reports *diag.List
	}
	results := make([]result, len(units))

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(units) {
		numWorkers = len(units)
	}
	work := make(chan int, len(units))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser (not thread-safe).
			parser := pysrc.NewParser()

			for idx := range work {
				u := units[idx]
				local := &diag.List{}
				mod := &pysrc.Module{}

				source, err := os.ReadFile(u.Abs)
				if err != nil {
					local.Add(diag.ExtractFailure, string(u.Path), "%v", err)
				} else if parsed, err := parser.ParseModule(source); err != nil {
					local.Add(diag.ExtractFailure, string(u.Path), "%v", err)
				} else {
					mod = parsed
				}

				results[idx] = result{
					rec:     extract.Record(u, mod, children[u.Path], local),
					reports: local,
				}
			}
		}()
	}

	for i := range units {
		work <- i
	}
	close(work)
	wg.Wait()

	records := make([]*model.ModuleRecord, len(units))
	for i, r := range results {
		records[i] = r.rec
		reports.Merge(r.reports)
	}
	return records
}

// childIndex maps each module path to the set of its direct children's
// names, so declared names that are really submodule listings can be told
// apart from symbols.
func childIndex(units []discover.Unit) map[model.ModulePath]map[string]bool {
	index := make(map[model.ModulePath]map[string]bool)
	for _, u := range units {
		parts := u.Path.Parts()
		if len(parts) < 2 {
			continue
		}
		parent := model.ModulePath(joinDotted(parts[:len(parts)-1]))
		if index[parent] == nil {
			index[parent] = make(map[string]bool)
		}
		index[parent][parts[len(parts)-1]] = true
	}
	return index
}

func joinDotted(parts []string) string {
	s := parts[0]
	for _, p := range parts[1:] {
		s += "." + p
	}
	return s
}

// dropSubmodules keeps only the target itself (or, for a plain directory
// target, its top-level entries) and returns the dotted paths that were
// skipped.
func dropSubmodules(units []discover.Unit, root model.ModulePath) ([]discover.Unit, []string) {
	var kept []discover.Unit
	var skipped []string
	for _, u := range units {
		keep := u.Path == root
		if root == "" {
			keep = len(u.Path.Parts()) == 1
		}
		if keep {
			kept = append(kept, u)
		} else {
			skipped = append(skipped, string(u.Path))
		}
	}
	return kept, skipped
}

func displaySource(target string, u discover.Unit) string {
	if u.Rel == "" {
		return filepath.Clean(target)
	}
	return filepath.Join(target, u.Rel)
}

// printUndocumented prints the skipped submodules in a wrapped table.
func printUndocumented(w io.Writer, names []string) {
	if len(names) == 0 {
		return
	}
	if len(names) == 1 {
		fmt.Fprintln(w, "This submodule was NOT documented:")
	} else {
		fmt.Fprintln(w, "These submodules were NOT documented:")
	}
	sort.Strings(names)
	const width = 70
	line := " "
	for _, name := range names {
		if len(line)+1+len(name) > width && line != " " {
			fmt.Fprintln(w, line)
			line = " "
		}
		line += " " + name
	}
	if line != " " {
		fmt.Fprintln(w, line)
	}
}

// runWatch performs an initial batch and then rebuilds on debounced source
// changes until interrupted.
func runWatch(opts options, cfg *config.Config, stdout, stderr io.Writer) error {
	var rebuildMu sync.Mutex
	rebuild := func() {
		rebuildMu.Lock()
		defer rebuildMu.Unlock()
		if err := runDocs(opts, cfg, stdout, stderr); err != nil {
			slog.Error("documentation run failed", "err", err)
		}
	}

	rebuild()

	excludeDirs, err := config.CompileGlobs(cfg.Exclude.Dirs)
	if err != nil {
		return fmt.Errorf("exclude.dirs: %w", err)
	}
	excludeFiles, err := config.CompileGlobs(cfg.Exclude.Files)
	if err != nil {
		return fmt.Errorf("exclude.files: %w", err)
	}

	w, err := watch.New(cfg.Watch.Debounce, excludeDirs, excludeFiles, func(changed []string) {
		slog.Info("source changed", "files", len(changed))
		rebuild()
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(opts.target); err != nil {
		return err
	}
	slog.Info("watching for changes", "target", opts.target)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	return nil
}
