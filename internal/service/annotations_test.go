package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"labeling-service/internal/models"
	"labeling-service/internal/store"
)

func newService(t *testing.T, ids ...string) *Service {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "annotations.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, models.Question{TaskID: id, DRQuestion: "q " + id, Domain: "finance"})
	}
	if _, err := st.ImportQuestions(context.Background(), questions, false); err != nil {
		t.Fatalf("import questions: %v", err)
	}
	return New(st, zap.NewNop())
}

func TestSetRatingValidation(t *testing.T) {
	svc := newService(t, "t1")
	ctx := context.Background()

	cases := []struct {
		name  string
		user  string
		task  string
		value int
		want  error
	}{
		{"missing user", "", "t1", 1, ErrUserRequired},
		{"unusable user", "!!!", "t1", 1, ErrInvalidUser},
		{"missing task", "alice", "", 1, ErrTaskRequired},
		{"rating too high", "alice", "t1", 2, ErrInvalidRating},
		{"rating too low", "alice", "t1", -2, ErrInvalidRating},
		{"unknown task", "alice", "nope", 1, store.ErrQuestionNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.SetRating(ctx, tc.user, tc.task, tc.value); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuestionsForFillsRatings(t *testing.T) {
	svc := newService(t, "t1", "t2")
	ctx := context.Background()

	if err := svc.SetRating(ctx, "Alice", "t2", -1); err != nil {
		t.Fatalf("set rating: %v", err)
	}

	rows, annotatorID, err := svc.QuestionsFor(ctx, "Alice")
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if annotatorID != "Annotator_alice" {
		t.Fatalf("unexpected annotator column %q", annotatorID)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Annotation != 0 || rows[1].Annotation != -1 {
		t.Fatalf("unexpected ratings: %+v", rows)
	}
	if rows[0].Index != 0 || rows[1].Index != 1 {
		t.Fatalf("unexpected indices: %+v", rows)
	}
}

func TestQuestionsForAnonymous(t *testing.T) {
	svc := newService(t, "t1")

	rows, annotatorID, err := svc.QuestionsFor(context.Background(), "")
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if annotatorID != "" {
		t.Fatalf("expected empty annotator column, got %q", annotatorID)
	}
	if rows[0].Annotation != 0 {
		t.Fatalf("anonymous load should be unrated, got %d", rows[0].Annotation)
	}
}

func TestExportRequiresQuestions(t *testing.T) {
	svc := newService(t)
	if _, err := svc.Export(context.Background()); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestExportReflectsLatestRatings(t *testing.T) {
	svc := newService(t, "t1", "t2")
	ctx := context.Background()

	if err := svc.SetRating(ctx, "Alice", "t1", 1); err != nil {
		t.Fatalf("set rating: %v", err)
	}
	if err := svc.SetRating(ctx, "Alice", "t1", -1); err != nil {
		t.Fatalf("overwrite rating: %v", err)
	}
	if err := svc.SetRating(ctx, "Bob", "t2", 1); err != nil {
		t.Fatalf("set bob: %v", err)
	}
	if err := svc.SetRating(ctx, "Bob", "t2", 0); err != nil {
		t.Fatalf("clear bob: %v", err)
	}

	table, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(table.Annotators) != 1 || table.Annotators[0] != "Annotator_alice" {
		t.Fatalf("cleared annotator must not get a column: %v", table.Annotators)
	}
	base := len(models.QuestionColumns)
	if table.Rows[0][base] != -1 {
		t.Fatalf("expected latest value -1, got %v", table.Rows[0][base])
	}
}
