package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/ltxdiff/ltxdiff/internal/conf"
	"github.com/ltxdiff/ltxdiff/internal/export"
	"github.com/ltxdiff/ltxdiff/internal/l10n"
	"github.com/ltxdiff/ltxdiff/internal/overlay"
)

// exportAction writes the patches of a whole mod.
func exportAction(c *cli.Context) error {
	tree, err := overlayFromArgs(c, 3)
	if err != nil {
		return err
	}
	modName := c.Args().Get(2)

	outDir := c.String(cliOutput)
	if outDir == "" {
		outDir = "ltxdiff_" + modName
	}
	outDir, err = overlay.Abs(outDir)
	if err != nil {
		return cli.Exit(err, 1)
	}

	opts := export.Options{
		ModName:   modName,
		OutDir:    outDir,
		Overwrite: conf.Configuration.Overwrite || c.Bool(cliOverwrite),
		Parse:     parseOptions(c),
		Ignore:    slices.Concat(conf.Configuration.ExportIgnore, c.StringSlice(cliIgnore)),
	}

	s := newSpinner(c)
	if s != nil {
		s.Suffix = l10n.T(" exporting %v", modName)
		opts.Progress = func(step string) {
			s.Lock()
			s.Suffix = " " + step
			s.Unlock()
		}
		s.Start()
	}

	result, err := export.Run(tree, opts)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return cli.Exit(l10n.T("cannot export %v: %v", modName, err), 1)
	}

	for _, name := range result.Patches {
		fmt.Fprintln(c.App.Writer, filepath.Join(outDir, filepath.FromSlash(name)))
	}
	fmt.Fprintln(c.App.Writer, l10n.TN("%v patch written", "%v patches written", uint32(len(result.Patches)), len(result.Patches))+
		", "+l10n.TN("%v file copied", "%v files copied", uint32(len(result.Copied)), len(result.Copied))+
		", "+l10n.TN("%v root unchanged", "%v roots unchanged", uint32(len(result.Unchanged)), len(result.Unchanged)))
	return nil
}
