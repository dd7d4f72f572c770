package main

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/ltxdiff/ltxdiff/internal/conf"
	"github.com/ltxdiff/ltxdiff/internal/l10n"
	"github.com/ltxdiff/ltxdiff/internal/ltx"
	"github.com/ltxdiff/ltxdiff/internal/overlay"
)

// isTerminal reports whether fd refers to a terminal.
func isTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// newSpinner returns a stopped spinner when stdout is a terminal, and nil
// otherwise.
func newSpinner(c *cli.Context) *spinner.Spinner {
	if c.App.Writer != os.Stdout || !isTerminal(os.Stdout.Fd()) {
		return nil
	}
	return spinner.New(spinner.CharSets[9], 100*time.Millisecond)
}

// parseOptions combines the configuration with the global flags.
func parseOptions(c *cli.Context) ltx.Options {
	return ltx.Options{
		TypoTolerance: conf.Configuration.TypoTolerance && !c.Bool(cliNoTypoTolerance),
	}
}

// overlayFromArgs checks the argument count and builds the overlay from the
// first two arguments.
func overlayFromArgs(c *cli.Context, want int) (*overlay.Overlay, error) {
	if c.NArg() != want {
		return nil, cli.Exit(l10n.T("expected %v arguments, got %v; see 'ltxdiff %v --help'", want, c.NArg(), c.Command.Name), 1)
	}

	baseDir, err := overlay.Abs(c.Args().Get(0))
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	modDir, err := overlay.Abs(c.Args().Get(1))
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	for _, dir := range []string{baseDir, modDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return nil, cli.Exit(l10n.T("%v is not a directory", dir), 1)
		}
	}
	return overlay.New(baseDir, modDir), nil
}
