package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/jamesainslie/go-treebank/conllu"
)

func textCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "text",
		Usage: "write the plain text of every sentence, one per line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Required: true, Usage: "CoNLL-U `FILE`"},
			&cli.StringFlag{Name: "out", Usage: "output `FILE` (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			doc, err := conllu.ReadFile(c.String("input"))
			if err != nil {
				return err
			}
			texts := doc.Texts()

			write := func(w io.Writer) error {
				bw := bufio.NewWriter(w)
				for _, line := range texts {
					if _, err := bw.WriteString(line + "\n"); err != nil {
						return err
					}
				}
				return bw.Flush()
			}

			out := c.String("out")
			if out == "" {
				return write(ui.Out)
			}
			if err := conllu.WriteAtomic(out, write); err != nil {
				return err
			}
			fmt.Fprintf(ui.Err, "Wrote %d sentences to %s\n", len(texts), out)
			return nil
		},
	}
}
