package conllu

import "strings"

const (
	// NumFields is the number of tab-separated columns in a token row.
	NumFields = 10

	// Placeholder marks an unspecified field.
	Placeholder = "_"

	fieldSeparator = "\t"
	rangeSeparator = "-"
	emptySeparator = "."
)

// Token is a single CoNLL-U row. Fields are kept as their raw text so that
// serialization is lossless and heads compare as written.
type Token struct {
	ID     string
	Form   string
	Lemma  string
	UPOS   string
	XPOS   string
	Feats  string
	Head   string
	Deprel string
	Deps   string
	Misc   string
}

// ParseToken builds a Token from a raw row. ok is false when the row does
// not have exactly NumFields tab-separated fields.
func ParseToken(line string) (tok Token, fields int, ok bool) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) != NumFields {
		return Token{}, len(parts), false
	}
	return Token{
		ID:     parts[0],
		Form:   parts[1],
		Lemma:  parts[2],
		UPOS:   parts[3],
		XPOS:   parts[4],
		Feats:  parts[5],
		Head:   parts[6],
		Deprel: parts[7],
		Deps:   parts[8],
		Misc:   parts[9],
	}, NumFields, true
}

// IsMultiword reports whether the token is a multiword span such as "4-5".
func (t Token) IsMultiword() bool {
	return strings.Contains(t.ID, rangeSeparator)
}

// IsEmptyNode reports whether the token is an empty node such as "4.1".
func (t Token) IsEmptyNode() bool {
	return strings.Contains(t.ID, emptySeparator)
}

// IsScoring reports whether the token takes part in dependency scoring.
func (t Token) IsScoring() bool {
	return !t.IsMultiword() && !t.IsEmptyNode()
}

// Fields returns the columns in file order.
func (t Token) Fields() [NumFields]string {
	return [NumFields]string{
		t.ID, t.Form, t.Lemma, t.UPOS, t.XPOS,
		t.Feats, t.Head, t.Deprel, t.Deps, t.Misc,
	}
}

// String renders the token as a tab-separated row without a newline.
func (t Token) String() string {
	f := t.Fields()
	return strings.Join(f[:], fieldSeparator)
}
