package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"labeling-service/internal/models"
	"labeling-service/internal/workbook"
)

// Excel is the workbook-backed fallback store. Annotator ratings live as one
// column per annotator next to the question columns, so the file stays
// editable by hand. Writes rewrite the whole sheet; last write wins.
type Excel struct {
	path   string
	sheet  string
	logger *zap.Logger

	mu sync.Mutex // serializes read-modify-write of the workbook
}

// NewExcel creates a store over the workbook at path.
func NewExcel(path, sheet string, logger *zap.Logger) *Excel {
	if sheet == "" {
		sheet = workbook.DefaultSheet
	}
	logger.Info("Excel store initialized", zap.String("workbook", path))
	return &Excel{path: path, sheet: sheet, logger: logger}
}

// Backend identifies the store kind.
func (e *Excel) Backend() string { return "excel" }

func (e *Excel) load() (*workbook.Sheet, error) {
	if _, err := os.Stat(e.path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkbookMissing, e.path)
	}
	return workbook.ReadSheet(e.path, e.sheet)
}

// Questions returns all questions from the workbook.
func (e *Excel) Questions(ctx context.Context) ([]models.Question, error) {
	sh, err := e.load()
	if err != nil {
		return nil, err
	}
	return sh.Questions()
}

// Annotations returns one annotator's nonzero ratings keyed by task_id.
func (e *Excel) Annotations(ctx context.Context, annotatorID string) (map[string]models.Rating, error) {
	sh, err := e.load()
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.Rating)
	col := sh.ColumnIndex(annotatorID)
	if col < 0 {
		return out, nil
	}
	taskCol := sh.ColumnIndex("task_id")
	if taskCol < 0 {
		return nil, fmt.Errorf("missing column: task_id")
	}

	for _, row := range sh.Rows {
		taskID := strings.TrimSpace(row[taskCol])
		if taskID == "" {
			continue
		}
		if r := parseRating(row[col]); r != models.Unrated {
			out[taskID] = r
		}
	}
	return out, nil
}

// SetRating writes one rating cell, adding the annotator's column on first
// use, and saves the workbook.
func (e *Excel) SetRating(ctx context.Context, annotatorID, taskID string, r models.Rating) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sh, err := e.load()
	if err != nil {
		return err
	}
	taskCol := sh.ColumnIndex("task_id")
	if taskCol < 0 {
		return fmt.Errorf("missing column: task_id")
	}

	col := sh.ColumnIndex(annotatorID)
	if col < 0 {
		col = len(sh.Header)
		sh.Header = append(sh.Header, annotatorID)
		for i := range sh.Rows {
			sh.Rows[i] = append(sh.Rows[i], "0")
		}
	}

	found := false
	for _, row := range sh.Rows {
		if strings.TrimSpace(row[taskCol]) == taskID {
			row[col] = strconv.Itoa(int(r))
			found = true
		}
	}
	if !found {
		return ErrQuestionNotFound
	}

	if err := workbook.WriteFile(e.path, e.sheet, sh.Header, workbook.StringRows(sh.Rows)); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// AllAnnotations returns every annotator column's nonzero ratings.
func (e *Excel) AllAnnotations(ctx context.Context) (map[string]map[string]models.Rating, error) {
	sh, err := e.load()
	if err != nil {
		return nil, err
	}
	taskCol := sh.ColumnIndex("task_id")
	if taskCol < 0 {
		return nil, fmt.Errorf("missing column: task_id")
	}

	out := make(map[string]map[string]models.Rating)
	for col, name := range sh.Header {
		name = strings.TrimSpace(name)
		if !strings.HasPrefix(name, "Annotator_") {
			continue
		}
		for _, row := range sh.Rows {
			taskID := strings.TrimSpace(row[taskCol])
			if taskID == "" {
				continue
			}
			r := parseRating(row[col])
			if r == models.Unrated {
				continue
			}
			if out[name] == nil {
				out[name] = make(map[string]models.Rating)
			}
			out[name][taskID] = r
		}
	}
	return out, nil
}

// Close is a no-op; the workbook is opened per call.
func (e *Excel) Close() error { return nil }

// parseRating coerces a cell value to a rating; anything unparseable or
// outside the value set counts as unrated.
func parseRating(cell string) models.Rating {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return models.Unrated
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return models.Unrated
	}
	r := models.Rating(int(f))
	if !r.Valid() {
		return models.Unrated
	}
	return r
}
