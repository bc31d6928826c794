// Command treebank prepares a CoNLL-U treebank and produces system
// predictions for evaluation.
//
// Usage:
//
//	treebank split   -corpus hi_hdtb.conllu -output-dir split
//	treebank predict -gold split/test.conllu -out predicted.conllu
//	treebank text    -input split/test.conllu -out test.txt
//	treebank check   split/train.conllu split/dev.conllu
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

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
		fmt.Fprintf(ui.Err, "treebank: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, ui UI) error {
	app := &cli.App{
		Name:            "treebank",
		Usage:           "split CoNLL-U corpora and generate parser predictions",
		Version:         fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Writer:          ui.Out,
		ErrWriter:       ui.Err,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration `FILE`"},
			&cli.BoolFlag{Name: "verbose", Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			splitCommand(ui),
			predictCommand(ui),
			textCommand(ui),
			checkCommand(ui),
		},
	}
	return app.RunContext(ctx, args)
}

// loadConfig reads the -config file if one was given, otherwise the
// defaults. Command flags are applied by the caller.
func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func newLogger(c *cli.Context, cfg config.Config, ui UI) (*slog.Logger, error) {
	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}
	return config.NewLogger(ui.Err, level)
}
