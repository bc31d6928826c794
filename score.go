package treebank

import (
	"fmt"

	"github.com/jamesainslie/go-treebank/conllu"
)

// Counts holds attachment tallies over a set of aligned tokens.
type Counts struct {
	Tokens         int // aligned token pairs scored
	CorrectHeads   int // pairs whose head matches
	CorrectLabeled int // pairs whose head and relation both match
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Tokens:         c.Tokens + o.Tokens,
		CorrectHeads:   c.CorrectHeads + o.CorrectHeads,
		CorrectLabeled: c.CorrectLabeled + o.CorrectLabeled,
	}
}

// Scores converts the tallies to attachment percentages. With no tokens
// both scores are 0.
func (c Counts) Scores() Scores {
	s := Scores{Counts: c}
	if c.Tokens > 0 {
		s.UAS = 100 * float64(c.CorrectHeads) / float64(c.Tokens)
		s.LAS = 100 * float64(c.CorrectLabeled) / float64(c.Tokens)
	}
	return s
}

// Scores holds unlabeled and labeled attachment scores in percent.
type Scores struct {
	Counts
	UAS float64
	LAS float64
}

func (s Scores) String() string {
	return fmt.Sprintf("UAS: %.2f%%  LAS: %.2f%%", s.UAS, s.LAS)
}

// ScoreSentence compares the scoring tokens of one aligned sentence pair.
// Only the first min(gold, system) tokens are compared. Heads are compared
// as written, so "0" and "00" differ.
func ScoreSentence(gold, system conllu.Sentence) Counts {
	g := gold.ScoringTokens()
	s := system.ScoringTokens()
	n := min(len(g), len(s))

	var c Counts
	for i := 0; i < n; i++ {
		c.Tokens++
		if g[i].Head != s[i].Head {
			continue
		}
		c.CorrectHeads++
		if g[i].Deprel == s[i].Deprel {
			c.CorrectLabeled++
		}
	}
	return c
}

// Score computes UAS and LAS of system against gold. Sentences are paired
// by position; the documents must have the same number of sentences or a
// *MismatchError is returned.
func Score(gold, system *conllu.Document) (Scores, error) {
	if gold.Len() != system.Len() {
		return Scores{}, &MismatchError{Gold: gold.Len(), System: system.Len()}
	}

	var total Counts
	if gold.Len() == 0 {
		return total.Scores(), nil
	}
	for i := range gold.Sentences {
		total = total.Add(ScoreSentence(gold.Sentences[i], system.Sentences[i]))
	}
	return total.Scores(), nil
}
