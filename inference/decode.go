package inference

import (
	"fmt"

	"github.com/jamesainslie/go-treebank/tagger"
)

// Decode turns model logits for words into predictions. Each label is the
// argmax of its row. A word may not attach to itself, so its own column is
// excluded from the head row; column 0 means root.
func Decode(words []string, logits *Logits, labels *Labels) ([]tagger.Prediction, error) {
	n := len(words)
	nu, nd := len(labels.UPOS), len(labels.Deprel)

	switch {
	case logits.Words != n:
		return nil, fmt.Errorf("%w: %d words, logits for %d", ErrOutputShape, n, logits.Words)
	case len(logits.UPOS) != n*nu:
		return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrOutputShape, outputUPOS, len(logits.UPOS), n*nu)
	case len(logits.Head) != n*(n+1):
		return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrOutputShape, outputHead, len(logits.Head), n*(n+1))
	case len(logits.Deprel) != n*nd:
		return nil, fmt.Errorf("%w: %s has %d values, want %d", ErrOutputShape, outputDeprel, len(logits.Deprel), n*nd)
	}

	preds := make([]tagger.Prediction, n)
	for i, w := range words {
		preds[i] = tagger.Prediction{
			Form:   w,
			UPOS:   labels.UPOS[argmax(logits.UPOS[i*nu:(i+1)*nu], -1)],
			Head:   argmax(logits.Head[i*(n+1):(i+1)*(n+1)], i+1),
			Deprel: labels.Deprel[argmax(logits.Deprel[i*nd:(i+1)*nd], -1)],
		}
	}
	return preds, nil
}

// argmax returns the index of the largest value in row, ignoring index
// skip. Ties resolve to the lowest index.
func argmax(row []float32, skip int) int {
	best := -1
	for i, v := range row {
		if i == skip {
			continue
		}
		if best < 0 || v > row[best] {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
