package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jamesainslie/go-treebank/internal/store"
)

func historyCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recorded evaluation runs, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list; 0 lists all"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup(c, ui)
			if err != nil {
				return err
			}
			if cfg.History == "" {
				return errors.New("history: no database; use -db or set history in the config")
			}

			s, err := store.Open(cfg.History)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			runs, err := s.List(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(ui.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tTOKENS\tUAS\tLAS\tSYSTEM")
			for _, r := range runs {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%.2f\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Tokens, r.UAS, r.LAS, r.System)
			}
			return tw.Flush()
		},
	}
}
