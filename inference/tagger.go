package inference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-treebank/tagger"
)

// Tagger is a tagger.Tagger backed by a pool of ONNX sessions. It is safe
// for concurrent use; at most Size() sentences are inferred at once.
type Tagger struct {
	pool   *Pool
	labels *Labels
	logger *slog.Logger
}

var _ tagger.Tagger = (*Tagger)(nil)

// NewTagger loads the labels file and creates a pool of poolSize sessions
// over the model.
func NewTagger(modelPath, labelsPath string, poolSize int, logger *slog.Logger) (*Tagger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	labels, err := LoadLabels(labelsPath)
	if err != nil {
		return nil, err
	}

	pool, err := NewPool(modelPath, poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating session pool: %w", err)
	}

	logger.Debug("onnx tagger ready",
		"model", modelPath,
		"sessions", pool.Size(),
		"vocab", len(labels.Vocab),
		"upos", len(labels.UPOS),
		"deprel", len(labels.Deprel))

	return &Tagger{pool: pool, labels: labels, logger: logger}, nil
}

// Tag splits text on whitespace and predicts one token per word.
func (t *Tagger) Tag(ctx context.Context, text string) ([]tagger.Prediction, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	ids := lo.Map(words, func(w string, _ int) int64 { return t.labels.ID(w) })

	logits, err := t.pool.Infer(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tagger.ErrTagger, err)
	}

	return Decode(words, logits, t.labels)
}

// Size returns the number of pooled sessions.
func (t *Tagger) Size() int {
	return t.pool.Size()
}

// Close releases all sessions.
func (t *Tagger) Close() error {
	return t.pool.Close()
}
