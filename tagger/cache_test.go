package tagger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

type countingTagger struct {
	mu    sync.Mutex
	calls int
}

func (c *countingTagger) Tag(_ context.Context, text string) ([]Prediction, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return []Prediction{
		{Form: text, Lemma: "_", UPOS: "NOUN", XPOS: "NN", Head: 0, Deprel: "root"},
		{Form: "x", Lemma: "x", UPOS: "PUNCT", XPOS: "SYM", Head: 1, Deprel: "punct"},
	}, nil
}

func TestCache_HitAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preds.cache")
	next := &countingTagger{}
	ctx := context.Background()

	cache, err := OpenCache(path, next)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}

	first, err := cache.Tag(ctx, "घर")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	second, err := cache.Tag(ctx, "घर")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if next.calls != 1 {
		t.Errorf("wrapped tagger called %d times, want 1", next.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached predictions differ: %+v vs %+v", first, second)
	}
	if hits, misses := cache.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1 and 1", hits, misses)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenCache(path, next)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.Len() != 1 {
		t.Errorf("Len() = %d after reopen, want 1", reopened.Len())
	}
	third, err := reopened.Tag(ctx, "घर")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if next.calls != 1 {
		t.Errorf("wrapped tagger called again after reopen")
	}
	if !reflect.DeepEqual(first, third) {
		t.Errorf("persisted predictions = %+v, want %+v", third, first)
	}
}

func TestCache_TruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preds.cache")
	ctx := context.Background()

	cache, err := OpenCache(path, &countingTagger{})
	if err != nil {
		t.Fatal(err)
	}
	for _, text := range []string{"a", "b"} {
		if _, err := cache.Tag(ctx, text); err != nil {
			t.Fatal(err)
		}
	}
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(path, info.Size()-3); err != nil {
		t.Fatal(err)
	}

	next := &countingTagger{}
	reopened, err := OpenCache(path, next)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after dropping the cut record", reopened.Len())
	}
	if _, err := reopened.Tag(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if next.calls != 1 {
		t.Errorf("expected the dropped sentence to be tagged again")
	}
}

func TestCache_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	cache, err := OpenCache(filepath.Join(t.TempDir(), "c"), Func(func(context.Context, string) ([]Prediction, error) {
		return nil, boom
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := cache.Tag(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped tagger error, got: %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed predictions must not be cached")
	}
}

func TestEntryEncoding(t *testing.T) {
	preds := []Prediction{
		{Form: "राम", Lemma: "राम", UPOS: "PROPN", XPOS: "NNP", Head: 3, Deprel: "nsubj"},
		{Form: "", Lemma: "", UPOS: "", XPOS: "", Head: -1, Deprel: ""},
	}
	text, got, err := consumeEntry(appendEntry(nil, "राम घर", preds))
	if err != nil {
		t.Fatalf("consumeEntry() error = %v", err)
	}
	if text != "राम घर" {
		t.Errorf("text = %q", text)
	}
	if !reflect.DeepEqual(got, preds) {
		t.Errorf("predictions = %+v, want %+v", got, preds)
	}
}
