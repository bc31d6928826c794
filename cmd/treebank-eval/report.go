package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/jamesainslie/go-treebank/internal/report"
)

func reportCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "break scores down per sentence and flag alignment problems",
		ArgsUsage: "GOLD SYSTEM",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "worst", Value: 10, Usage: "number of lowest-scoring sentences to list"},
			&cli.StringFlag{Name: "xlsx", Usage: "also write the report as an Excel `FILE`"},
		},
		Action: func(c *cli.Context) error {
			_, logger, err := setup(c, ui)
			if err != nil {
				return err
			}
			gold, system, err := readPair(c)
			if err != nil {
				return err
			}

			r, err := report.Build(gold, system)
			if err != nil {
				return err
			}
			if r.Summary.Drifted > 0 {
				logger.Warn("tokenization drift detected; affected sentences were scored against shifted tokens",
					"sentences", r.Summary.Drifted)
			}

			if err := r.WriteText(ui.Out, c.Int("worst")); err != nil {
				return err
			}

			if path := c.String("xlsx"); path != "" {
				if err := r.WriteXLSX(path); err != nil {
					return err
				}
				fmt.Fprintf(ui.Err, "Wrote %s\n", path)
			}
			return nil
		},
	}
}
