package tagger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the on-disk cache records.
//
//	message Entry      { string text = 1; repeated Prediction predictions = 2; }
//	message Prediction { string form = 1; string lemma = 2; string upos = 3;
//	                     string xpos = 4; sint64 head = 5; string deprel = 6; }
const (
	entryText        protowire.Number = 1
	entryPredictions protowire.Number = 2

	predForm   protowire.Number = 1
	predLemma  protowire.Number = 2
	predUPOS   protowire.Number = 3
	predXPOS   protowire.Number = 4
	predHead   protowire.Number = 5
	predDeprel protowire.Number = 6
)

// Cache remembers predictions per sentence text in an append-only file of
// length-prefixed protobuf records, so repeated runs over the same corpus
// do not invoke the model again. It is safe for concurrent use.
type Cache struct {
	next Tagger

	mu      sync.Mutex
	file    *os.File
	entries map[string][]Prediction
	hits    int
	misses  int
}

// OpenCache loads the cache at path, creating it if needed, and returns a
// Tagger that consults it before calling next. A record cut short by an
// interrupted write is dropped.
func OpenCache(path string, next Tagger) (*Cache, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening prediction cache: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("reading prediction cache: %w", err)
	}

	entries, good := decodeEntries(data)
	if good < len(data) {
		if err := f.Truncate(int64(good)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("truncating prediction cache: %w", err)
		}
	}
	if _, err := f.Seek(int64(good), io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seeking prediction cache: %w", err)
	}

	return &Cache{next: next, file: f, entries: entries}, nil
}

// Tag returns cached predictions for text or asks the wrapped tagger and
// stores its answer.
func (c *Cache) Tag(ctx context.Context, text string) ([]Prediction, error) {
	c.mu.Lock()
	if preds, ok := c.entries[text]; ok {
		c.hits++
		c.mu.Unlock()
		return append([]Prediction(nil), preds...), nil
	}
	c.misses++
	c.mu.Unlock()

	preds, err := c.next.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil, errors.New("tagger: prediction cache is closed")
	}
	if _, ok := c.entries[text]; !ok {
		record := appendEntry(nil, text, preds)
		framed := protowire.AppendBytes(nil, record)
		if _, err := c.file.Write(framed); err != nil {
			return nil, fmt.Errorf("writing prediction cache: %w", err)
		}
		c.entries[text] = append([]Prediction(nil), preds...)
	}
	return preds, nil
}

// Len returns the number of cached sentences.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the cache hit and miss counts since opening.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Close flushes and closes the cache file.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return nil
	}
	f := c.file
	c.file = nil
	return errors.Join(f.Sync(), f.Close())
}

// decodeEntries reads length-prefixed records until the data ends or a
// record is incomplete. It returns the entries and the offset of the end
// of the last complete record.
func decodeEntries(data []byte) (map[string][]Prediction, int) {
	entries := make(map[string][]Prediction)
	offset := 0
	for offset < len(data) {
		record, n := protowire.ConsumeBytes(data[offset:])
		if n < 0 {
			break
		}
		text, preds, err := consumeEntry(record)
		if err != nil {
			break
		}
		entries[text] = preds
		offset += n
	}
	return entries, offset
}

func appendEntry(b []byte, text string, preds []Prediction) []byte {
	b = protowire.AppendTag(b, entryText, protowire.BytesType)
	b = protowire.AppendString(b, text)
	for _, p := range preds {
		b = protowire.AppendTag(b, entryPredictions, protowire.BytesType)
		b = protowire.AppendBytes(b, appendPrediction(nil, p))
	}
	return b
}

func appendPrediction(b []byte, p Prediction) []byte {
	for _, f := range []struct {
		num   protowire.Number
		value string
	}{
		{predForm, p.Form},
		{predLemma, p.Lemma},
		{predUPOS, p.UPOS},
		{predXPOS, p.XPOS},
		{predDeprel, p.Deprel},
	} {
		b = protowire.AppendTag(b, f.num, protowire.BytesType)
		b = protowire.AppendString(b, f.value)
	}
	b = protowire.AppendTag(b, predHead, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(p.Head)))
	return b
}

func consumeEntry(b []byte) (string, []Prediction, error) {
	var (
		text  string
		preds []Prediction
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == entryText && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			text = v
			b = b[n:]
		case num == entryPredictions && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			p, err := consumePrediction(v)
			if err != nil {
				return "", nil, err
			}
			preds = append(preds, p)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return text, preds, nil
}

func consumePrediction(b []byte) (Prediction, error) {
	var p Prediction
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Prediction{}, protowire.ParseError(n)
		}
		b = b[n:]

		if num == predHead && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Prediction{}, protowire.ParseError(n)
			}
			p.Head = int(protowire.DecodeZigZag(v))
			b = b[n:]
			continue
		}

		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Prediction{}, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return Prediction{}, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case predForm:
			p.Form = v
		case predLemma:
			p.Lemma = v
		case predUPOS:
			p.UPOS = v
		case predXPOS:
			p.XPOS = v
		case predDeprel:
			p.Deprel = v
		}
	}
	return p, nil
}
