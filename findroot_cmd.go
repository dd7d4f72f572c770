package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ltxdiff/ltxdiff/internal/l10n"
	"github.com/ltxdiff/ltxdiff/internal/rootfind"
)

func findRootAction(c *cli.Context) error {
	tree, err := overlayFromArgs(c, 3)
	if err != nil {
		return err
	}
	file, err := tree.RelTo(c.Args().Get(2))
	if err != nil {
		return cli.Exit(l10n.T("cannot use %v: %v", c.Args().Get(2), err), 1)
	}
	if !tree.Exists(file) {
		return cli.Exit(l10n.T("%v exists in neither tree", file), 1)
	}

	roots, err := rootfind.New(tree).Roots(file)
	if err != nil {
		return cli.Exit(l10n.T("cannot find roots of %v: %v", file, err), 1)
	}
	for _, root := range roots {
		fmt.Fprintln(c.App.Writer, root)
	}
	return nil
}
