package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	treebank "github.com/jamesainslie/go-treebank"
	"github.com/jamesainslie/go-treebank/internal/store"
)

func scoreCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "print UAS and LAS of SYSTEM against GOLD",
		ArgsUsage: "GOLD SYSTEM",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "record", Usage: "append the result to the run history"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c, ui)
			if err != nil {
				return err
			}
			gold, system, err := readPair(c)
			if err != nil {
				return err
			}

			scores, err := treebank.Score(gold, system)
			if err != nil {
				return err
			}
			if gold.Tokens() != scores.Tokens || system.Tokens() != scores.Tokens {
				logger.Warn("token counts differ; unmatched tokens were not scored",
					"gold", gold.Tokens(),
					"system", system.Tokens(),
					"scored", scores.Tokens)
			}

			fmt.Fprintf(ui.Out, "UAS: %.2f%%\nLAS: %.2f%%\n", scores.UAS, scores.LAS)

			if !c.Bool("record") {
				return nil
			}
			if cfg.History == "" {
				return fmt.Errorf("score: -record needs -db or history in the config")
			}
			return record(c, cfg.History, store.Run{
				Gold:   c.Args().Get(0),
				System: c.Args().Get(1),
				Tokens: scores.Tokens,
				UAS:    scores.UAS,
				LAS:    scores.LAS,
			})
		},
	}
}

func record(c *cli.Context, path string, run store.Run) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	_, err = s.Record(c.Context, run)
	return err
}
