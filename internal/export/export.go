// Package export flattens all annotators' ratings into one spreadsheet:
// a row per question, the question columns first, then one column per
// annotator holding -1/0/+1.
package export

import (
	"io"
	"sort"

	"labeling-service/internal/models"
	"labeling-service/internal/workbook"
)

// Filename is the attachment name served by the export endpoint.
const Filename = "dr_questions_annotations.xlsx"

// Table is the flattened export.
type Table struct {
	Header     []string
	Rows       [][]any
	Annotators []string
}

// Flatten pivots annotations onto the question list. Only annotators with at
// least one rating get a column; an absent rating renders as 0, so a cleared
// pair is indistinguishable from one never rated.
func Flatten(questions []models.Question, annotations map[string]map[string]models.Rating) *Table {
	var annotators []string
	for id, ratings := range annotations {
		if len(ratings) > 0 {
			annotators = append(annotators, id)
		}
	}
	sort.Strings(annotators)

	header := make([]string, 0, len(models.QuestionColumns)+len(annotators))
	header = append(header, models.QuestionColumns...)
	header = append(header, annotators...)

	rows := make([][]any, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		row := make([]any, 0, len(header))
		for _, col := range models.QuestionColumns {
			row = append(row, *q.Field(col))
		}
		for _, id := range annotators {
			row = append(row, int(annotations[id][q.TaskID]))
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows, Annotators: annotators}
}

// Write streams the table as a workbook.
func (t *Table) Write(w io.Writer, sheet string) error {
	return workbook.Write(w, sheet, t.Header, t.Rows)
}

// WriteFile saves the table as a workbook at path.
func (t *Table) WriteFile(path, sheet string) error {
	return workbook.WriteFile(path, sheet, t.Header, t.Rows)
}
