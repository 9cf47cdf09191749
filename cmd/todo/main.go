package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.PrintHelp(stderr) }

	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli.ExitOK
		}
		ui.Fail(stderr, err.Error())
		return cli.ExitUsage
	}
	ui.SetTheme(cfg.Theme)

	logger, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		ui.Fail(stderr, err.Error())
		return cli.ExitUsage
	}
	if cfg.Source != "" {
		logger.Debug("config loaded", "path", cfg.Source)
	}

	wd, err := os.Getwd()
	if err != nil {
		ui.Fail(stderr, "getwd: "+err.Error())
		return cli.ExitError
	}

	// Hand the remaining args to the CLI runner.
	if len(rest) == 0 {
		cli.PrintHelp(stderr)
		return cli.ExitUsage
	}
	code := cli.Run(rest, cli.Options{
		Group:  cfg.Group,
		Store:  jsonstore.New(cfg.DataPath(wd), cfg.Title),
		Logger: logger,
		Out:    stdout,
		Err:    stderr,
	})
	if code != cli.ExitOK {
		fmt.Fprintln(stderr)
	}
	return code
}
