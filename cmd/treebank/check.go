package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/jamesainslie/go-treebank/conllu"
)

func checkCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "parse CoNLL-U files and report sentence and token counts",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("no files given")
			}

			tw := tabwriter.NewWriter(ui.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSENTENCES\tTOKENS")
			for _, path := range c.Args().Slice() {
				doc, err := conllu.ReadFile(path)
				if err != nil {
					_ = tw.Flush()
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\n", path, doc.Len(), doc.Tokens())
			}
			return tw.Flush()
		},
	}
}
