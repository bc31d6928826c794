package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// WriteText writes the summary, the worst sentences and every flagged
// sentence as aligned plain text. Diffs mark gold-only forms as [-x-] and
// system-only forms as {+x+}.
func (r *Report) WriteText(w io.Writer, worst int) error {
	s := r.Summary
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s\n", s.Scores)
	fmt.Fprintf(tw, "Tokens:\t%d\n", s.Tokens)
	fmt.Fprintf(tw, "Sentences:\t%d (%d scored)\n", s.Sentences, s.Scored)
	fmt.Fprintf(tw, "Truncated:\t%d\n", s.Truncated)
	fmt.Fprintf(tw, "Drifted:\t%d\n", s.Drifted)
	if s.Scored > 0 {
		fmt.Fprintf(tw, "Sentence UAS:\tmean %.2f  stddev %.2f  min %.2f  max %.2f\n",
			s.MeanUAS, s.StdDevUAS, s.MinUAS, s.MaxUAS)
	}

	if rows := r.Worst(worst); len(rows) > 0 {
		fmt.Fprintf(tw, "\nLowest UAS\n")
		fmt.Fprintf(tw, "#\tID\tTOKENS\tUAS\tLAS\n")
		for _, row := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%.2f\n", row.Index, orDash(row.ID), row.Tokens, row.UAS, row.LAS)
		}
	}

	if rows := r.Flagged(); len(rows) > 0 {
		fmt.Fprintf(tw, "\nAlignment problems\n")
		fmt.Fprintf(tw, "#\tID\tGOLD\tSYSTEM\tDRIFT\tDIFF\n")
		for _, row := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%t\t%s\n",
				row.Index, orDash(row.ID), row.GoldTokens, row.SystemTokens, row.Drift, renderDiff(row.Diffs))
		}
	}

	return tw.Flush()
}

func renderDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + text + "+}")
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
