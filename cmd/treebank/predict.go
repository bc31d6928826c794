package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	treebank "github.com/jamesainslie/go-treebank"
	"github.com/jamesainslie/go-treebank/conllu"
	"github.com/jamesainslie/go-treebank/inference"
	"github.com/jamesainslie/go-treebank/internal/config"
	"github.com/jamesainslie/go-treebank/tagger"
)

func predictCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "tag every gold sentence and write the projected system file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "gold", Usage: "gold CoNLL-U `FILE` (default: <output-dir>/test.conllu)"},
			&cli.StringFlag{Name: "out", Value: "predicted.conllu", Usage: "system output `FILE`"},
			&cli.StringFlag{Name: "tagger", Usage: "tagger kind: http or onnx"},
			&cli.StringFlag{Name: "endpoint", Usage: "HTTP tagger `URL`"},
			&cli.StringFlag{Name: "model", Usage: "ONNX parser model `FILE`"},
			&cli.StringFlag{Name: "labels", Usage: "ONNX labels YAML `FILE`"},
			&cli.IntFlag{Name: "pool-size", Usage: "ONNX session pool size"},
			&cli.DurationFlag{Name: "timeout", Usage: "HTTP request timeout"},
			&cli.StringFlag{Name: "cache", Usage: "prediction cache `FILE`"},
			&cli.IntFlag{Name: "concurrency", Value: runtime.NumCPU(), Usage: "sentences tagged in parallel"},
			&cli.BoolFlag{Name: "no-progress", Usage: "do not draw a progress bar"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			applyTaggerFlags(c, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(c, cfg, ui)
			if err != nil {
				return err
			}

			goldPath := c.String("gold")
			if goldPath == "" {
				goldPath = filepath.Join(cfg.OutputDir, "test.conllu")
			}
			gold, err := conllu.ReadFile(goldPath)
			if err != nil {
				return err
			}

			t, closeTagger, err := openTagger(cfg, logger)
			if err != nil {
				return err
			}
			system, err := predict(c.Context, gold, t, c.Int("concurrency"), !c.Bool("no-progress"), logger, ui.Err)
			if cerr := closeTagger(); cerr != nil {
				err = errors.Join(err, cerr)
			}
			if err != nil {
				return err
			}

			out := c.String("out")
			if err := conllu.WriteFile(out, system); err != nil {
				return err
			}
			fmt.Fprintf(ui.Out, "Wrote %d sentences to %s\n", system.Len(), out)
			return nil
		},
	}
}

func applyTaggerFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("tagger") {
		cfg.Tagger.Kind = c.String("tagger")
	}
	if c.IsSet("endpoint") {
		cfg.Tagger.Endpoint = c.String("endpoint")
	}
	if c.IsSet("model") {
		cfg.Tagger.Model = c.String("model")
	}
	if c.IsSet("labels") {
		cfg.Tagger.Labels = c.String("labels")
	}
	if c.IsSet("pool-size") {
		cfg.Tagger.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("timeout") {
		cfg.Tagger.Timeout = c.Duration("timeout")
	}
	if c.IsSet("cache") {
		cfg.Cache = c.String("cache")
	}
}

// openTagger builds the configured tagger, wrapped in a prediction cache
// when one is configured. The returned func releases both.
func openTagger(cfg config.Config, logger *slog.Logger) (tagger.Tagger, func() error, error) {
	var (
		t       tagger.Tagger
		closers []func() error
	)

	switch cfg.Tagger.Kind {
	case config.TaggerONNX:
		onnx, err := inference.NewTagger(cfg.Tagger.Model, cfg.Tagger.Labels, cfg.Tagger.PoolSize, logger)
		if err != nil {
			return nil, nil, err
		}
		t = onnx
		closers = append(closers, onnx.Close)
	default:
		t = tagger.NewHTTP(cfg.Tagger.Endpoint, cfg.Tagger.Timeout)
	}

	if cfg.Cache != "" {
		cache, err := tagger.OpenCache(cfg.Cache, t)
		if err != nil {
			for _, fn := range closers {
				_ = fn()
			}
			return nil, nil, err
		}
		logger.Debug("prediction cache opened", "path", cfg.Cache, "entries", cache.Len())
		t = cache
		closers = append(closers, func() error {
			hits, misses := cache.Stats()
			logger.Info("prediction cache", "hits", hits, "misses", misses)
			return cache.Close()
		})
	}

	return t, func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}, nil
}

func predict(ctx context.Context, gold *conllu.Document, t tagger.Tagger, concurrency int, progress bool, logger *slog.Logger, out io.Writer) (*conllu.Document, error) {
	opts := []treebank.Option{
		treebank.WithConcurrency(concurrency),
		treebank.WithLogger(logger),
	}

	if progress && gold.Len() > 0 {
		p := uiprogress.New()
		p.SetOut(out)
		bar := p.AddBar(gold.Len())
		bar.AppendCompleted()
		bar.PrependElapsed()
		p.Start()
		defer p.Stop()

		opts = append(opts, treebank.WithProgress(func(done, _ int) {
			_ = bar.Set(done)
		}))
	}

	return treebank.Predict(ctx, gold, t, opts...)
}
