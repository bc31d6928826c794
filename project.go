package treebank

import (
	"strings"

	"github.com/jamesainslie/go-treebank/conllu"
	"github.com/jamesainslie/go-treebank/tagger"
)

// Project overlays predictions on the gold token skeleton of a sentence.
//
// Comments and each token's ID and Form come from gold; Lemma, UPOS, XPOS,
// Head and Deprel come from the prediction at the same position. Feats,
// Deps and Misc are always written as "_". If there are fewer predictions
// than gold scoring tokens, the trailing gold tokens are dropped.
//
// A sentence with neither comments nor tokens has no representation in a
// CoNLL-U file. When the projection would be empty in that way, a
// "# text = ..." comment holding the gold text is added so the sentence
// survives WriteFile and ReadFile and stays aligned with gold.
func Project(gold conllu.Sentence, predicted []tagger.Prediction) conllu.Sentence {
	goldTokens := gold.ScoringTokens()
	n := min(len(goldTokens), len(predicted))

	out := conllu.Sentence{
		Tokens: make([]conllu.Token, n),
	}
	if gold.Comments != nil {
		out.Comments = append(make([]string, 0, len(gold.Comments)), gold.Comments...)
	}

	for i := 0; i < n; i++ {
		g := goldTokens[i]
		p := predicted[i].Normalize()
		out.Tokens[i] = conllu.Token{
			ID:     g.ID,
			Form:   g.Form,
			Lemma:  p.Lemma,
			UPOS:   p.UPOS,
			XPOS:   p.XPOS,
			Feats:  conllu.Placeholder,
			Head:   p.HeadString(),
			Deprel: p.Deprel,
			Deps:   conllu.Placeholder,
			Misc:   conllu.Placeholder,
		}
	}
	if len(out.Comments) == 0 && len(out.Tokens) == 0 {
		out.Comments = []string{strings.TrimRight(textCommentPrefix+gold.Text(), " ")}
	}
	return out
}

const textCommentPrefix = "# text = "

