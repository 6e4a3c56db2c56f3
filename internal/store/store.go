package store

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"

	"labeling-service/internal/models"
)

var (
	// ErrQuestionNotFound is returned when a rating targets an unknown task_id.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrWorkbookMissing is returned by the Excel backend when the workbook
	// file does not exist.
	ErrWorkbookMissing = errors.New("workbook not found")
)

// Store is the annotation repository, uniform across both backends.
// Rating 0 clears: after SetRating with models.Unrated, reads and export
// cannot tell the pair apart from one that was never rated.
type Store interface {
	Questions(ctx context.Context) ([]models.Question, error)
	Annotations(ctx context.Context, annotatorID string) (map[string]models.Rating, error)
	SetRating(ctx context.Context, annotatorID, taskID string, r models.Rating) error
	AllAnnotations(ctx context.Context) (map[string]map[string]models.Rating, error)
	Backend() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	DBPath      string
	ForceSQLite bool // set when ANNOTATION_DB is present
	ExcelPath   string
	Sheet       string
}

// Open picks the backend: SQLite when the database file already exists or is
// explicitly forced, the Excel workbook otherwise.
func Open(opts Options, logger *zap.Logger) (Store, error) {
	if opts.ForceSQLite || fileExists(opts.DBPath) {
		return NewSQLite(opts.DBPath, logger)
	}
	return NewExcel(opts.ExcelPath, opts.Sheet, logger), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
