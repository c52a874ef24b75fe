// docmark collects Python docstrings into a mirrored tree of Markdown files.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docmark/internal/config"
)

var version = "dev"

const rootLongDesc = `
docmark generates Markdown API reference files from the docstrings of a
Python module tree. Public surface is explicit: only names listed in a
module's __all__ declaration are documented, in declared order. Output
mirrors the package hierarchy under the destination directory, with each
package's own documentation written to that directory's README.md.

Docstrings may cross-reference documented symbols with [text](#name); the
references are resolved to stable Markdown links, and dangling or ambiguous
references are reported.

TARGET is a package directory, a directory of modules, or a single .py file.
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "docmark:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "docmark [flags] TARGET",
		Short:         "Collect Python docstrings into Markdown files",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = version
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.outdir, "outdir", "o", "", "write output files here (default "+config.DefaultOutdir+")")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "produce less output")
	flags.BoolVar(&opts.noSubmodules, "no-submodules", false, "don't document submodules recursively")
	flags.StringVar(&opts.configPath, "config", ".docmark.toml", "path to the rc file")
	flags.BoolVar(&opts.watchMode, "watch", false, "stay running and regenerate on source changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.target = args[0]

		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if opts.outdir == "" {
			opts.outdir = cfg.Outdir
		}
		opts.quiet = opts.quiet || cfg.Quiet
		opts.noSubmodules = opts.noSubmodules || cfg.NoSubmodules

		if opts.watchMode {
			return runWatch(opts, cfg, stdout, stderr)
		}
		return runDocs(opts, cfg, stdout, stderr)
	}
	return cmd
}
