// Package conllu models, reads and writes CoNLL-U treebank files.
//
// A Document is an ordered list of sentences, each holding its comment
// lines followed by its token rows. Documents are treated as values:
// transformations elsewhere in the module produce new documents with
// Clone rather than mutating shared ones.
package conllu

import (
	"strings"
)

const sentIDPrefix = "# sent_id"

// Sentence is a block of comment lines followed by token rows.
type Sentence struct {
	Comments []string
	Tokens   []Token
}

// Clone returns a deep copy of the sentence.
func (s Sentence) Clone() Sentence {
	c := Sentence{}
	if s.Comments != nil {
		c.Comments = append(make([]string, 0, len(s.Comments)), s.Comments...)
	}
	if s.Tokens != nil {
		c.Tokens = append(make([]Token, 0, len(s.Tokens)), s.Tokens...)
	}
	return c
}

// ScoringTokens returns the tokens that take part in dependency scoring,
// in order. Multiword spans and empty nodes are skipped.
func (s Sentence) ScoringTokens() []Token {
	return ScoringTokens(s)
}

// ScoringTokens filters a sentence down to its simple tokens. Every
// component that indexes tokens positionally goes through this function.
func ScoringTokens(s Sentence) []Token {
	tokens := make([]Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.IsScoring() {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Text joins the forms of the scoring tokens with single spaces.
func (s Sentence) Text() string {
	tokens := s.ScoringTokens()
	forms := make([]string, len(tokens))
	for i, t := range tokens {
		forms[i] = t.Form
	}
	return strings.Join(forms, " ")
}

// ID returns the value of the sent_id comment, or "" when there is none.
func (s Sentence) ID() string {
	for _, c := range s.Comments {
		rest, ok := strings.CutPrefix(c, sentIDPrefix)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if value, ok := strings.CutPrefix(rest, "="); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Document is an ordered sequence of sentences.
type Document struct {
	Sentences []Sentence
}

// NewDocument returns a document holding deep copies of sentences.
func NewDocument(sentences []Sentence) *Document {
	doc := &Document{Sentences: make([]Sentence, len(sentences))}
	for i, s := range sentences {
		doc.Sentences[i] = s.Clone()
	}
	return doc
}

// Len returns the number of sentences.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Sentences)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{}
	}
	return NewDocument(d.Sentences)
}

// Tokens returns the number of scoring tokens across all sentences.
func (d *Document) Tokens() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, s := range d.Sentences {
		n += len(s.ScoringTokens())
	}
	return n
}

// Texts returns one line of text per sentence. Sentences without scoring
// tokens are skipped.
func (d *Document) Texts() []string {
	if d == nil {
		return nil
	}
	var texts []string
	for _, s := range d.Sentences {
		if text := s.Text(); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
