//go:build ignore

// Summarize the train/dev/test CoNLL-U files produced by `treebank split`.
// Prints sentence, token and relation counts per split and writes them to
// stats.json in the same directory.
// Usage: go run ./scripts/corpus-stats.go [split-dir]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jamesainslie/go-treebank/conllu"
)

// Stats describes one split file.
type Stats struct {
	Name       string         `json:"name"`
	Sentences  int            `json:"sentences"`
	Tokens     int            `json:"tokens"`
	Multiword  int            `json:"multiword"`
	EmptyNodes int            `json:"empty_nodes"`
	Empty      int            `json:"empty_sentences"` // no scoring tokens
	Deprels    map[string]int `json:"deprels"`
}

func main() {
	dir := "split"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	var all []Stats
	for _, split := range []string{"train", "dev", "test"} {
		path := filepath.Join(dir, split+".conllu")
		doc, err := conllu.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
			continue
		}

		s := collect(split, doc)
		all = append(all, s)
		fmt.Printf("%-5s %6d sentences %8d tokens (%d multiword, %d empty nodes, %d empty sentences)\n",
			split, s.Sentences, s.Tokens, s.Multiword, s.EmptyNodes, s.Empty)
		printTop(s.Deprels, 5)
	}

	if len(all) == 0 {
		os.Exit(1)
	}

	out := filepath.Join(dir, "stats.json")
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding stats: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", out)
}

func collect(name string, doc *conllu.Document) Stats {
	s := Stats{Name: name, Sentences: doc.Len(), Deprels: make(map[string]int)}
	for _, sent := range doc.Sentences {
		scoring := 0
		for _, tok := range sent.Tokens {
			switch {
			case tok.IsMultiword():
				s.Multiword++
			case tok.IsEmptyNode():
				s.EmptyNodes++
			default:
				scoring++
				s.Deprels[tok.Deprel]++
			}
		}
		s.Tokens += scoring
		if scoring == 0 {
			s.Empty++
		}
	}
	return s
}

func printTop(counts map[string]int, n int) {
	type kv struct {
		key   string
		count int
	}
	var sorted []kv
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})
	for i := 0; i < n && i < len(sorted); i++ {
		fmt.Printf("      %-12s %d\n", sorted[i].key, sorted[i].count)
	}
}
