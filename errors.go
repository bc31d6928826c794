package treebank

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrSentenceCountMismatch indicates gold and system documents do not
	// hold the same number of sentences and cannot be aligned.
	ErrSentenceCountMismatch = errors.New("treebank: sentence count mismatch")

	// ErrInvalidFractions indicates split fractions outside [0, 1] or
	// summing to more than 1.
	ErrInvalidFractions = errors.New("treebank: invalid split fractions")
)

// MismatchError reports the sentence counts of an unalignable pair.
type MismatchError struct {
	Gold   int
	System int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: gold has %d sentences, system has %d",
		ErrSentenceCountMismatch, e.Gold, e.System)
}

func (e *MismatchError) Unwrap() error {
	return ErrSentenceCountMismatch
}
