// Package report breaks an evaluation down per sentence and flags the
// sentences where positional alignment is unreliable.
package report

import (
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/stat"

	treebank "github.com/jamesainslie/go-treebank"
	"github.com/jamesainslie/go-treebank/conllu"
)

// Row holds the evaluation of one aligned sentence pair.
type Row struct {
	Index        int
	ID           string
	GoldTokens   int
	SystemTokens int
	treebank.Scores

	// Truncated is set when the pair has different scoring token counts,
	// so trailing tokens were not scored.
	Truncated bool
	// Drift is set when the forms over the scored prefix differ, so
	// tokens were compared against the wrong partners.
	Drift bool
	// Diffs compares the gold and system form sequences. It is only
	// filled for truncated or drifted rows.
	Diffs []diffmatchpatch.Diff
}

// Flagged reports whether the row needs a closer look.
func (r Row) Flagged() bool {
	return r.Truncated || r.Drift
}

// Summary aggregates a report.
type Summary struct {
	treebank.Scores
	Sentences int
	Scored    int // sentences with at least one scored token
	Truncated int
	Drifted   int

	// Distribution of per-sentence UAS over scored sentences.
	MeanUAS   float64
	StdDevUAS float64
	MinUAS    float64
	MaxUAS    float64
}

// Report is a per-sentence evaluation.
type Report struct {
	Rows    []Row
	Summary Summary
}

// Build scores system against gold sentence by sentence. It fails under
// the same conditions as treebank.Score, and Summary.Scores always equals
// the treebank.Score result.
func Build(gold, system *conllu.Document) (*Report, error) {
	if _, err := treebank.Score(gold, system); err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	r := &Report{Rows: make([]Row, gold.Len())}

	var total treebank.Counts
	for i := range r.Rows {
		g, s := gold.Sentences[i], system.Sentences[i]
		gf, sf := forms(g), forms(s)
		n := min(len(gf), len(sf))

		row := Row{
			Index:        i,
			ID:           g.ID(),
			GoldTokens:   len(gf),
			SystemTokens: len(sf),
			Scores:       treebank.ScoreSentence(g, s).Scores(),
			Truncated:    len(gf) != len(sf),
			Drift:        !slices.Equal(gf[:n], sf[:n]),
		}
		if row.Flagged() {
			row.Diffs = diffForms(dmp, gf, sf)
		}

		total = total.Add(row.Counts)
		r.Rows[i] = row
	}

	r.Summary = summarize(r.Rows, total)
	return r, nil
}

// Worst returns up to n scored rows with the lowest UAS, ties broken by
// LAS and then by position. n <= 0 returns none.
func (r *Report) Worst(n int) []Row {
	if n <= 0 {
		return nil
	}
	rows := lo.Filter(r.Rows, func(row Row, _ int) bool { return row.Tokens > 0 })
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].UAS != rows[j].UAS {
			return rows[i].UAS < rows[j].UAS
		}
		return rows[i].LAS < rows[j].LAS
	})
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// Flagged returns the truncated or drifted rows in document order.
func (r *Report) Flagged() []Row {
	return lo.Filter(r.Rows, func(row Row, _ int) bool { return row.Flagged() })
}

func summarize(rows []Row, total treebank.Counts) Summary {
	s := Summary{
		Scores:    total.Scores(),
		Sentences: len(rows),
		Truncated: lo.CountBy(rows, func(r Row) bool { return r.Truncated }),
		Drifted:   lo.CountBy(rows, func(r Row) bool { return r.Drift }),
	}

	uas := lo.FilterMap(rows, func(r Row, _ int) (float64, bool) { return r.UAS, r.Tokens > 0 })
	s.Scored = len(uas)
	if len(uas) == 0 {
		return s
	}

	s.MeanUAS = stat.Mean(uas, nil)
	if len(uas) > 1 {
		s.StdDevUAS = stat.StdDev(uas, nil)
	}
	s.MinUAS = lo.Min(uas)
	s.MaxUAS = lo.Max(uas)
	return s
}

// forms returns the NFC-normalized forms of the scoring tokens of s.
func forms(s conllu.Sentence) []string {
	return lo.Map(s.ScoringTokens(), func(t conllu.Token, _ int) string {
		return norm.NFC.String(t.Form)
	})
}

// diffForms diffs two form sequences token by token so a diff never
// splits a word. Every distinct form is mapped to one private-use rune
// before diffing. Diff texts are forms followed by a space.
func diffForms(dmp *diffmatchpatch.DiffMatchPatch, gold, system []string) []diffmatchpatch.Diff {
	index := make(map[string]rune)
	var vocab []string
	encode := func(forms []string) []rune {
		out := make([]rune, len(forms))
		for i, f := range forms {
			r, ok := index[f]
			if !ok {
				r = privateUse + rune(len(vocab))
				index[f] = r
				vocab = append(vocab, f)
			}
			out[i] = r
		}
		return out
	}

	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(encode(gold), encode(system), false))
	for i := range diffs {
		var b strings.Builder
		for _, r := range diffs[i].Text {
			b.WriteString(vocab[r-privateUse])
			b.WriteByte(' ')
		}
		diffs[i].Text = b.String()
	}
	return diffs
}

// privateUse is the first code point of Supplementary Private Use Area-A.
const privateUse = 0xF0000
