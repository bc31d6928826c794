package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/xuri/excelize/v2"

	"github.com/jamesainslie/go-treebank/conllu"
)

// Sheet names used by WriteXLSX.
const (
	SheetSentences = "Sentences"
	SheetSummary   = "Summary"
)

var sentenceHeader = []any{
	"#", "ID", "Gold tokens", "System tokens", "Scored", "Correct heads",
	"Correct labeled", "UAS", "LAS", "Truncated", "Drift", "Diff",
}

// WriteXLSX writes the report as a workbook with one row per sentence and
// a summary sheet. Diff cells show gold-only forms in red and system-only
// forms in green. The file is replaced atomically.
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := r.fillXLSX(f); err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	return conllu.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func (r *Report) fillXLSX(f *excelize.File) error {
	if err := f.SetSheetName("Sheet1", SheetSentences); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetSentences, "A1", &sentenceHeader); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetSentences, "B", "B", 16)
	_ = f.SetColWidth(SheetSentences, "L", "L", 100)

	for i, row := range r.Rows {
		line := i + 2
		values := []any{
			row.Index, row.ID, row.GoldTokens, row.SystemTokens, row.Tokens,
			row.CorrectHeads, row.CorrectLabeled, round2(row.UAS), round2(row.LAS),
			row.Truncated, row.Drift,
		}
		if err := f.SetSheetRow(SheetSentences, cell("A", line), &values); err != nil {
			return err
		}
		if len(row.Diffs) > 0 {
			if err := f.SetCellRichText(SheetSentences, cell("L", line), diffRuns(row.Diffs)); err != nil {
				return err
			}
		}
	}

	last := len(r.Rows) + 1
	var errs []error
	errs = append(errs, f.SetCellStyle(SheetSentences, "A1", "L1", header))
	if last > 1 {
		errs = append(errs, f.SetCellStyle(SheetSentences, "L2", cell("L", last), wrap))
	}
	errs = append(errs, f.SetPanes(SheetSentences, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}))
	if err := errors.Join(errs...); err != nil {
		return err
	}

	return r.fillSummary(f, header)
}

func (r *Report) fillSummary(f *excelize.File, header int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	s := r.Summary
	rows := [][]any{
		{"Metric", "Value"},
		{"UAS", round2(s.UAS)},
		{"LAS", round2(s.LAS)},
		{"Tokens", s.Tokens},
		{"Sentences", s.Sentences},
		{"Scored sentences", s.Scored},
		{"Truncated", s.Truncated},
		{"Drifted", s.Drifted},
		{"Mean sentence UAS", round2(s.MeanUAS)},
		{"StdDev sentence UAS", round2(s.StdDevUAS)},
		{"Min sentence UAS", round2(s.MinUAS)},
		{"Max sentence UAS", round2(s.MaxUAS)},
	}
	for i, values := range rows {
		if err := f.SetSheetRow(SheetSummary, cell("A", i+1), &values); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 22)
	return f.SetCellStyle(SheetSummary, "A1", "B1", header)
}

func diffRuns(diffs []diffmatchpatch.Diff) []excelize.RichTextRun {
	runs := make([]excelize.RichTextRun, 0, len(diffs))
	for _, d := range diffs {
		color := "#000000"
		switch d.Type {
		case diffmatchpatch.DiffDelete: // gold only
			color = "#FF0000"
		case diffmatchpatch.DiffInsert: // system only
			color = "#008000"
		}
		runs = append(runs, excelize.RichTextRun{
			Text: d.Text,
			Font: &excelize.Font{Color: color},
		})
	}
	return runs
}

func cell(col string, line int) string {
	return fmt.Sprintf("%s%d", col, line)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
