// Command treebank-eval scores system CoNLL-U predictions against gold
// annotation and keeps a history of runs.
//
// Usage:
//
//	treebank-eval score   gold.conllu system.conllu
//	treebank-eval report  -xlsx report.xlsx gold.conllu system.conllu
//	treebank-eval history -db runs.db
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/jamesainslie/go-treebank/conllu"
	"github.com/jamesainslie/go-treebank/internal/config"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// UI holds the output streams so tests can capture them.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args, ui)
	stop()

	if err != nil {
		fmt.Fprintf(ui.Err, "treebank-eval: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, ui UI) error {
	app := &cli.App{
		Name:            "treebank-eval",
		Usage:           "compute UAS and LAS of system predictions",
		Version:         fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Writer:          ui.Out,
		ErrWriter:       ui.Err,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration `FILE`"},
			&cli.StringFlag{Name: "db", Usage: "run history `FILE` (overrides config history)"},
			&cli.BoolFlag{Name: "verbose", Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			scoreCommand(ui),
			reportCommand(ui),
			historyCommand(ui),
		},
	}
	return app.RunContext(ctx, args)
}

// setup loads configuration and builds the logger shared by all commands.
func setup(c *cli.Context, ui UI) (config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, nil, err
		}
	}
	if c.IsSet("db") {
		cfg.History = c.String("db")
	}

	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}
	logger, err := config.NewLogger(ui.Err, level)
	return cfg, logger, err
}

// readPair reads the gold and system files named by the first two
// arguments.
func readPair(c *cli.Context) (gold, system *conllu.Document, err error) {
	if c.NArg() != 2 {
		return nil, nil, fmt.Errorf("%s: expected GOLD and SYSTEM files, got %d arguments", c.Command.Name, c.NArg())
	}
	if gold, err = conllu.ReadFile(c.Args().Get(0)); err != nil {
		return nil, nil, err
	}
	if system, err = conllu.ReadFile(c.Args().Get(1)); err != nil {
		return nil, nil, err
	}
	return gold, system, nil
}
