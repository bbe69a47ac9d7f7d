// Package report writes batch results as an Excel workbook.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/refzone/internal/pipeline"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetResults   = "Results"
	SheetDocuments = "Documents"
	SheetSummary   = "Summary"
)

var (
	resultHeader   = []string{"Document", "Record", "Outcome", "Rule", "Reason", "Query", "Hit", "URI", "Lines"}
	documentHeader = []string{"Document", "Lines", "Records", "Zone start", "Zone end", "Linked lines"}
	summaryHeader  = []string{"Outcome", "Records"}
)

// WriteXLSX writes b to path with one sheet per view.
func WriteXLSX(path string, b *pipeline.Batch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetDocuments, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	var rows [][]any
	for _, r := range b.Results() {
		rows = append(rows, []any{
			r.Document, r.RecordID, string(r.Outcome), string(r.Rule), r.Reason,
			r.Query, r.HitID, r.URI, joinInts(r.Lines),
		})
	}
	if err := writeSheet(f, SheetResults, resultHeader, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, d := range b.Documents {
		row := []any{d.Document, d.Lines, d.Records, "", "", d.Linked()}
		if d.Zone != nil {
			row[3], row[4] = d.Zone.Start, d.Zone.End
		}
		rows = append(rows, row)
	}
	for _, fl := range b.Failures {
		rows = append(rows, []any{fl.Document, "", "", "", "", "", fl.Error})
	}
	if err := writeSheet(f, SheetDocuments, documentHeader, rows); err != nil {
		return err
	}

	counts := b.Counts()
	rows = rows[:0]
	for _, o := range pipeline.Outcomes {
		rows = append(rows, []any{string(o), counts[o]})
	}
	rows = append(rows, []any{"run", b.RunID})
	if err := writeSheet(f, SheetSummary, summaryHeader, rows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for col, h := range header {
		if err := setCell(f, sheet, col+1, 1, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, v := range row {
			if err := setCell(f, sheet, col+1, i+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
