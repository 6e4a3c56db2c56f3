package workbook

import (
	"path/filepath"
	"testing"

	"labeling-service/internal/models"
)

func TestWriteFileReadSheetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.xlsx")

	header := []string{"task_id", "dr_question", "domain"}
	rows := [][]any{
		{"t1", "What is the plan?", "finance"},
		{"t2", "What changed?", "legal"},
	}
	if err := WriteFile(path, DefaultSheet, header, rows); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	sh, err := ReadSheet(path, DefaultSheet)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(sh.Header) != 3 || sh.Header[0] != "task_id" {
		t.Fatalf("unexpected header: %v", sh.Header)
	}
	if len(sh.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sh.Rows))
	}
	if sh.Rows[1][2] != "legal" {
		t.Fatalf("unexpected cell value: %q", sh.Rows[1][2])
	}
}

func TestReadSheetMissingFile(t *testing.T) {
	if _, err := ReadSheet(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultSheet); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}

func TestColumnIndexCaseInsensitive(t *testing.T) {
	sh := &Sheet{Header: []string{"Task_ID", " domain "}}
	if got := sh.ColumnIndex("task_id"); got != 0 {
		t.Fatalf("expected index 0, got %d", got)
	}
	if got := sh.ColumnIndex("DOMAIN"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := sh.ColumnIndex("missing"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestQuestionsDecoding(t *testing.T) {
	sh := &Sheet{
		Header: []string{"task_id", "dr_question", "domain", "user_role", "Annotator_bob"},
		Rows: [][]string{
			{"t1", "Q one", "finance", "CTO", "1"},
			{"", "orphan row", "legal", "", "0"},
		},
	}

	questions, err := sh.Questions()
	if err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected the blank task_id row to be skipped, got %d rows", len(questions))
	}
	q := questions[0]
	if q.TaskID != "t1" || q.DRQuestion != "Q one" || q.UserRole != "CTO" {
		t.Fatalf("unexpected question: %+v", q)
	}
}

func TestQuestionsMissingRequiredColumn(t *testing.T) {
	sh := &Sheet{Header: []string{"task_id", "domain"}}
	if _, err := sh.Questions(); err == nil {
		t.Fatal("expected error for missing dr_question column")
	}
}

func TestQuestionsIgnoresAnnotatorColumns(t *testing.T) {
	sh := &Sheet{
		Header: []string{"task_id", "dr_question", "domain", "Annotator_eve"},
		Rows:   [][]string{{"t1", "Q", "d", "-1"}},
	}
	questions, err := sh.Questions()
	if err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	if questions[0] != (models.Question{TaskID: "t1", DRQuestion: "Q", Domain: "d"}) {
		t.Fatalf("annotator column leaked into question: %+v", questions[0])
	}
}
