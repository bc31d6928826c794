package inference

import (
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// DefaultUnknown is the vocabulary entry used for out-of-vocabulary words
// when the labels file does not name one.
const DefaultUnknown = "<unk>"

// Labels maps between words and model ids and names the classes of the
// upos and deprel output layers. Index i of UPOS and Deprel is class i.
type Labels struct {
	Unknown string   `yaml:"unknown"`
	Vocab   []string `yaml:"vocab"`
	UPOS    []string `yaml:"upos"`
	Deprel  []string `yaml:"deprel"`

	ids     map[string]int64
	unknown int64
}

// LoadLabels reads and validates a YAML labels file.
func LoadLabels(path string) (*Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading labels: %w", err)
	}

	var l Labels
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLabels, path, err)
	}
	if err := l.init(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &l, nil
}

// NewLabels builds Labels directly from inventories.
func NewLabels(vocab, upos, deprel []string) (*Labels, error) {
	l := &Labels{Vocab: vocab, UPOS: upos, Deprel: deprel}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Labels) init() error {
	switch {
	case len(l.Vocab) == 0:
		return fmt.Errorf("%w: empty vocab", ErrInvalidLabels)
	case len(l.UPOS) == 0:
		return fmt.Errorf("%w: empty upos inventory", ErrInvalidLabels)
	case len(l.Deprel) == 0:
		return fmt.Errorf("%w: empty deprel inventory", ErrInvalidLabels)
	}
	if l.Unknown == "" {
		l.Unknown = DefaultUnknown
	}

	l.ids = make(map[string]int64, len(l.Vocab))
	for i, w := range l.Vocab {
		w = norm.NFC.String(w)
		if _, dup := l.ids[w]; dup {
			return fmt.Errorf("%w: duplicate vocab entry %q", ErrInvalidLabels, w)
		}
		l.ids[w] = int64(i)
	}

	id, ok := l.ids[norm.NFC.String(l.Unknown)]
	if !ok {
		return fmt.Errorf("%w: unknown token %q not in vocab", ErrInvalidLabels, l.Unknown)
	}
	l.unknown = id
	return nil
}

// ID returns the vocabulary id of word, or the unknown id. Words are
// compared in NFC so precomposed and decomposed Devanagari match.
func (l *Labels) ID(word string) int64 {
	if id, ok := l.ids[norm.NFC.String(word)]; ok {
		return id
	}
	return l.unknown
}
