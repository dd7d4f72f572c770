package main

import (
	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/ltxdiff/ltxdiff/internal/l10n"
	"github.com/ltxdiff/ltxdiff/internal/ltxdb"
	"github.com/ltxdiff/ltxdiff/internal/patch"
)

// diffAction prints the patch of one root file.
func diffAction(c *cli.Context) error {
	tree, err := overlayFromArgs(c, 3)
	if err != nil {
		return err
	}
	root, err := tree.RelTo(c.Args().Get(2))
	if err != nil {
		return cli.Exit(l10n.T("cannot use %v as root: %v", c.Args().Get(2), err), 1)
	}
	opts := parseOptions(c)

	base := ltxdb.New()
	if tree.BaseOnly().Exists(root) {
		base, err = ltxdb.Load(tree.BaseOnly(), root, opts)
		if err != nil {
			return cli.Exit(l10n.T("cannot read base tree: %v", err), 1)
		}
	} else {
		log.Infof("%v only exists in the mod tree", root)
	}

	mod, err := ltxdb.Load(tree, root, opts)
	if err != nil {
		return cli.Exit(l10n.T("cannot read mod tree: %v", err), 1)
	}

	if _, err := patch.Diff(base, mod).WriteTo(c.App.Writer); err != nil {
		return cli.Exit(l10n.T("cannot write patch: %v", err), 1)
	}
	return nil
}
