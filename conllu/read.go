package conllu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single line; treebank rows are short but comments
// carrying full sentence text can be long.
const maxLineSize = 1 << 20

const commentPrefix = "#"

// Parse converts CoNLL-U text into a Document.
func Parse(text string) (*Document, error) {
	return Read(strings.NewReader(text))
}

// Read parses CoNLL-U from r. Sentences are separated by one or more blank
// lines; the last sentence needs no trailing blank line. A row that does
// not split into exactly ten fields aborts parsing with a *RowError and no
// document is returned.
func Read(r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	doc := &Document{}
	var (
		current Sentence
		open    bool
		lineNum int
	)

	flush := func() {
		if open {
			doc.Sentences = append(doc.Sentences, current)
		}
		current = Sentence{}
		open = false
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		open = true

		if strings.HasPrefix(line, commentPrefix) {
			current.Comments = append(current.Comments, line)
			continue
		}

		tok, fields, ok := ParseToken(line)
		if !ok {
			return nil, &RowError{Line: lineNum, Sentence: len(doc.Sentences), Fields: fields}
		}
		current.Tokens = append(current.Tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning conllu: %w", err)
	}
	flush()

	return doc, nil
}
