package treebank

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-treebank/conllu"
	"github.com/jamesainslie/go-treebank/tagger"
)

// Predict builds a system document by tagging every gold sentence and
// projecting the predictions onto it. Sentence order is preserved.
//
// Each sentence is sent to t as its scoring forms joined by single spaces.
// A sentence without scoring tokens is copied with its comments only and
// t is not called, which keeps the result aligned with gold.
func Predict(ctx context.Context, gold *conllu.Document, t tagger.Tagger, opts ...Option) (*conllu.Document, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	total := gold.Len()
	out := &conllu.Document{Sentences: make([]conllu.Sentence, total)}
	if total == 0 {
		return out, nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if cfg.progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		cfg.progress(done, total)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, sent := range gold.Sentences {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			text := sent.Text()
			if text == "" {
				out.Sentences[i] = Project(sent, nil)
				report()
				return nil
			}

			preds, err := t.Tag(ctx, text)
			if err != nil {
				return fmt.Errorf("sentence %d: %w", i, err)
			}

			want := len(sent.ScoringTokens())
			if len(preds) != want {
				cfg.logger.Warn("tagger token count differs from gold",
					"sentence", i,
					"id", sent.ID(),
					"gold", want,
					"predicted", len(preds))
			}

			out.Sentences[i] = Project(sent, preds)
			report()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cfg.logger.Debug("prediction complete", "sentences", total)
	return out, nil
}
