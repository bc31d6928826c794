// Package tagger defines the tagging collaborator used to produce system
// predictions, and adapters that reach concrete models.
//
// A Tagger receives the raw text of one sentence (gold forms joined by
// single spaces) and returns one Prediction per token it produced. Callers
// align predictions to gold tokens positionally; a tagger that
// re-tokenizes differently from the gold annotation silently shifts that
// alignment.
package tagger

import (
	"context"
	"errors"
	"strconv"

	"github.com/jamesainslie/go-treebank/conllu"
)

// ErrTagger indicates the tagging collaborator failed to produce output.
var ErrTagger = errors.New("tagger: tagging failed")

// Prediction holds the fields a tagger predicts for a single token.
type Prediction struct {
	Form   string
	Lemma  string
	UPOS   string
	XPOS   string
	Head   int
	Deprel string
}

// Normalize fills missing string fields with the CoNLL-U placeholder.
func (p Prediction) Normalize() Prediction {
	p.Lemma = orPlaceholder(p.Lemma)
	p.UPOS = orPlaceholder(p.UPOS)
	p.XPOS = orPlaceholder(p.XPOS)
	p.Deprel = orPlaceholder(p.Deprel)
	if p.Head < 0 {
		p.Head = 0
	}
	return p
}

// HeadString renders the head as it appears in a CoNLL-U row.
func (p Prediction) HeadString() string {
	return strconv.Itoa(p.Head)
}

func orPlaceholder(s string) string {
	if s == "" {
		return conllu.Placeholder
	}
	return s
}

// Tagger tags one sentence of space-separated text.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Prediction, error)
}

// Func adapts an ordinary function to the Tagger interface.
type Func func(ctx context.Context, text string) ([]Prediction, error)

// Tag calls f.
func (f Func) Tag(ctx context.Context, text string) ([]Prediction, error) {
	return f(ctx, text)
}

// FromSentence returns the gold annotation of s as predictions. It is an
// oracle useful for checking a pipeline end to end.
func FromSentence(s conllu.Sentence) []Prediction {
	tokens := s.ScoringTokens()
	preds := make([]Prediction, len(tokens))
	for i, t := range tokens {
		head, _ := strconv.Atoi(t.Head) // non-numeric heads map to root
		preds[i] = Prediction{
			Form:   t.Form,
			Lemma:  t.Lemma,
			UPOS:   t.UPOS,
			XPOS:   t.XPOS,
			Head:   head,
			Deprel: t.Deprel,
		}
	}
	return preds
}
