package conllu

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrMalformedRow indicates a token row does not have exactly ten
	// tab-separated fields.
	ErrMalformedRow = errors.New("conllu: malformed token row")

	// ErrCorpusNotFound indicates the corpus file does not exist.
	ErrCorpusNotFound = errors.New("conllu: corpus file not found")
)

// RowError describes the offending row of a malformed input.
type RowError struct {
	Line     int // 1-based line number in the source text
	Sentence int // 0-based sentence index
	Fields   int // number of tab-separated fields found
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%v: line %d (sentence %d) has %d fields, want %d",
		ErrMalformedRow, e.Line, e.Sentence, e.Fields, NumFields)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}
