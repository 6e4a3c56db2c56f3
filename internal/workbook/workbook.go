package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"labeling-service/internal/models"
)

// DefaultSheet is the sheet name used by the bundled questions workbook.
const DefaultSheet = "dr_questions"

// Sheet is the raw contents of one worksheet: a header row and data rows,
// each padded to the header length.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// ReadSheet opens the workbook at path and reads the named sheet.
func ReadSheet(path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	s := &Sheet{Header: rows[0]}
	for _, row := range rows[1:] {
		padded := make([]string, len(s.Header))
		copy(padded, row)
		s.Rows = append(s.Rows, padded)
	}
	return s, nil
}

// ColumnIndex returns the index of the named header column, matching
// case-insensitively after trimming, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, col := range s.Header {
		if strings.ToLower(strings.TrimSpace(col)) == want {
			return i
		}
	}
	return -1
}

// Questions decodes the sheet's rows into questions. The header must contain
// every required column; unknown columns (e.g. annotator columns) are
// ignored.
func (s *Sheet) Questions() ([]models.Question, error) {
	for _, col := range models.RequiredColumns {
		if s.ColumnIndex(col) < 0 {
			return nil, fmt.Errorf("missing column: %s", col)
		}
	}

	idx := make(map[string]int, len(models.QuestionColumns))
	for _, col := range models.QuestionColumns {
		if i := s.ColumnIndex(col); i >= 0 {
			idx[col] = i
		}
	}

	var questions []models.Question
	for _, row := range s.Rows {
		var q models.Question
		for col, i := range idx {
			*q.Field(col) = strings.TrimSpace(row[i])
		}
		if q.TaskID == "" {
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// Write streams a single-sheet workbook to w.
func Write(w io.Writer, sheet string, header []string, rows [][]any) error {
	f, err := build(sheet, header, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes a single-sheet workbook to path.
func WriteFile(path, sheet string, header []string, rows [][]any) error {
	f, err := build(sheet, header, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func build(sheet string, header []string, rows [][]any) (*excelize.File, error) {
	f := excelize.NewFile()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// StringRows converts raw sheet rows to the row type the writers take.
func StringRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
