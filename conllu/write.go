package conllu

import (
	"bufio"
	"io"
	"strings"
)

// Serialize renders a document as CoNLL-U text: each sentence's comments
// then rows, one blank line between sentences and a single trailing
// newline. An empty document yields "".
func Serialize(doc *Document) string {
	var b strings.Builder
	_ = write(&b, doc) // strings.Builder never fails
	return b.String()
}

// Write serializes doc to w.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	if err := write(bw, doc); err != nil {
		return err
	}
	return bw.Flush()
}

func write(w io.StringWriter, doc *Document) error {
	if doc == nil {
		return nil
	}
	for i, s := range doc.Sentences {
		if i > 0 {
			if _, err := w.WriteString("\n"); err != nil {
				return err
			}
		}
		for _, c := range s.Comments {
			if _, err := w.WriteString(c + "\n"); err != nil {
				return err
			}
		}
		for _, t := range s.Tokens {
			if _, err := w.WriteString(t.String() + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
