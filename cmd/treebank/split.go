package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	treebank "github.com/jamesainslie/go-treebank"
	"github.com/jamesainslie/go-treebank/conllu"
)

func splitCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "split",
		Usage: "split a corpus into train, dev and test files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "corpus", Usage: "input CoNLL-U `FILE`"},
			&cli.StringFlag{Name: "output-dir", Usage: "directory for train/dev/test.conllu"},
			&cli.Float64Flag{Name: "train", Usage: "train fraction"},
			&cli.Float64Flag{Name: "dev", Usage: "dev fraction"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("corpus") {
				cfg.Corpus = c.String("corpus")
			}
			if c.IsSet("output-dir") {
				cfg.OutputDir = c.String("output-dir")
			}
			if c.IsSet("train") {
				cfg.TrainFraction = c.Float64("train")
			}
			if c.IsSet("dev") {
				cfg.DevFraction = c.Float64("dev")
			}
			if cfg.Corpus == "" {
				return fmt.Errorf("no corpus given; use -corpus or set corpus in the config")
			}
			if err := treebank.ValidateFractions(cfg.TrainFraction, cfg.DevFraction); err != nil {
				return err
			}

			logger, err := newLogger(c, cfg, ui)
			if err != nil {
				return err
			}

			doc, err := conllu.ReadFile(cfg.Corpus)
			if err != nil {
				return err
			}
			logger.Debug("corpus loaded", "path", cfg.Corpus, "sentences", doc.Len(), "tokens", doc.Tokens())

			train, dev, test := treebank.Split(doc, cfg.TrainFraction, cfg.DevFraction)
			parts := []struct {
				name string
				doc  *conllu.Document
			}{
				{"train", train},
				{"dev", dev},
				{"test", test},
			}
			for _, p := range parts {
				path := filepath.Join(cfg.OutputDir, p.name+".conllu")
				if err := conllu.WriteFile(path, p.doc); err != nil {
					return err
				}
				logger.Info("wrote split", "part", p.name, "path", path, "sentences", p.doc.Len())
			}

			fmt.Fprintf(ui.Out, "Train: %d  Dev: %d  Test: %d\n", train.Len(), dev.Len(), test.Len())
			return nil
		},
	}
}
