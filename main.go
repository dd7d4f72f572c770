package main

import (
	"fmt"
	"os"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v2"

	"github.com/ltxdiff/ltxdiff/internal/conf"
	"github.com/ltxdiff/ltxdiff/internal/l10n"
)

// Version is set at build time.
var Version = "dev"

const (
	cliConfig          = "config"
	cliLogLevel        = "log-level"
	cliNoTypoTolerance = "no-typo-tolerance"
	cliOutput          = "output"
	cliOverwrite       = "overwrite"
	cliIgnore          = "ignore"

	logLevelNames = "error, warn, info, debug, trace"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ltxdiff"
	app.Version = Version
	app.Usage = l10n.T("compare LTX configuration trees and write mod patches")
	app.HideHelpCommand = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  cliConfig,
			Usage: l10n.T("read configuration from `FILE` instead of the per-user file"),
		},
		&cli.StringFlag{
			Name:  cliLogLevel,
			Usage: l10n.T("set the log level (%v)", logLevelNames),
		},
		&cli.BoolFlag{
			Name:  cliNoTypoTolerance,
			Usage: l10n.T("fail on malformed lines instead of repairing known typos"),
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "diff",
			Usage:     l10n.T("print the patch a mod applies to one root file"),
			UsageText: "ltxdiff diff BASE MOD ROOT",
			Description: l10n.T("Resolves ROOT against the BASE tree alone and against BASE " +
				"overlaid with MOD, then prints every section and key the mod changes."),
			Action: diffAction,
		},
		{
			Name:      "findroot",
			Usage:     l10n.T("print the root files that include a file"),
			UsageText: "ltxdiff findroot BASE MOD FILE",
			Action:    findRootAction,
		},
		{
			Name:      "export",
			Usage:     l10n.T("write one patch file per root touched by a mod"),
			UsageText: "ltxdiff export [--output DIR] [--overwrite] BASE MOD NAME",
			Description: l10n.T("Traces every configuration file of MOD back to its root files " +
				"and writes a patch named after NAME for each of them. Other mod files are copied."),
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    cliOutput,
					Aliases: []string{"o"},
					Usage:   l10n.T("write the exported files into `DIR` (default: ./ltxdiff_NAME)"),
				},
				&cli.BoolFlag{
					Name:  cliOverwrite,
					Usage: l10n.T("replace existing output files"),
				},
				&cli.StringSliceFlag{
					Name:  cliIgnore,
					Usage: l10n.T("skip mod files matching the gitignore style `PATTERN`"),
				},
			},
			Action: exportAction,
		},
	}

	app.Before = beforeAction
	return app
}

// beforeAction loads the configuration and sets up logging before any
// command runs.
func beforeAction(c *cli.Context) error {
	if path := c.String(cliConfig); path != "" {
		config, err := conf.Source(path).Read()
		if err != nil {
			return cli.Exit(l10n.T("cannot load configuration: %v", err), 1)
		}
		conf.Configuration = config
	}

	level := conf.Configuration.LogLevel
	if c.IsSet(cliLogLevel) {
		var err error
		level, err = log.ParseLevel(strings.ToLower(c.String(cliLogLevel)))
		if err != nil {
			return cli.Exit(l10n.T("unknown log level %q, use one of: %v", c.String(cliLogLevel), logLevelNames), 1)
		}
	}
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("[%v] ", c.App.Name))
	log.SetLevel(level)

	return nil
}
