package treebank

import (
	"fmt"

	"github.com/jamesainslie/go-treebank/conllu"
)

// Default split proportions.
const (
	DefaultTrainFraction = 0.70
	DefaultDevFraction   = 0.15
)

// Split partitions doc positionally into train, dev and test documents.
// The first floor(total*trainFraction) sentences go to train, the next
// floor(total*devFraction) to dev and the remainder to test. Sentences
// are copied; the result never shares memory with doc.
//
// The fractions must satisfy ValidateFractions; Split does not check them.
func Split(doc *conllu.Document, trainFraction, devFraction float64) (train, dev, test *conllu.Document) {
	total := doc.Len()
	if total == 0 {
		return &conllu.Document{}, &conllu.Document{}, &conllu.Document{}
	}

	trainCount := int(float64(total) * trainFraction)
	devCount := int(float64(total) * devFraction)

	// Keep slice bounds valid even for out-of-contract fractions.
	trainCount = clamp(trainCount, 0, total)
	devCount = clamp(devCount, 0, total-trainCount)

	sentences := doc.Sentences
	train = conllu.NewDocument(sentences[:trainCount])
	dev = conllu.NewDocument(sentences[trainCount : trainCount+devCount])
	test = conllu.NewDocument(sentences[trainCount+devCount:])
	return train, dev, test
}

// ValidateFractions checks that both fractions lie in [0, 1] and that
// their sum does not exceed 1.
func ValidateFractions(trainFraction, devFraction float64) error {
	switch {
	case trainFraction < 0 || trainFraction > 1:
		return fmt.Errorf("%w: train fraction %v", ErrInvalidFractions, trainFraction)
	case devFraction < 0 || devFraction > 1:
		return fmt.Errorf("%w: dev fraction %v", ErrInvalidFractions, devFraction)
	case trainFraction+devFraction > 1:
		return fmt.Errorf("%w: train %v + dev %v exceeds 1", ErrInvalidFractions, trainFraction, devFraction)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
