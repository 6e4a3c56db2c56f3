package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
	"go.uber.org/zap"

	"labeling-service/internal/models"
	"labeling-service/internal/workbook"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is the persistent annotation store.
type SQLite struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLite opens (creating if needed) the database at path and applies
// migrations.
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("SQLite store initialized", zap.String("db_path", path))
	return s, nil
}

// migrate applies the embedded schema migrations.
func (s *SQLite) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "annotations", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Backend identifies the store kind.
func (s *SQLite) Backend() string { return "sqlite" }

// CountQuestions returns the number of seeded questions.
func (s *SQLite) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM questions"); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// Seed populates the questions table from the bundled workbook when the
// table is empty. Purely additive; a missing workbook is not an error.
func (s *SQLite) Seed(ctx context.Context, workbookPath, sheet string) (int, error) {
	n, err := s.CountQuestions(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	if _, err := os.Stat(workbookPath); err != nil {
		s.logger.Warn("No bundled workbook to seed from", zap.String("path", workbookPath))
		return 0, nil
	}

	sh, err := workbook.ReadSheet(workbookPath, sheet)
	if err != nil {
		return 0, err
	}
	questions, err := sh.Questions()
	if err != nil {
		return 0, err
	}

	count, err := s.ImportQuestions(ctx, questions, false)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Seeded questions from workbook",
		zap.Int("count", count),
		zap.String("workbook", workbookPath))
	return count, nil
}

var insertQuestionSQL = fmt.Sprintf(
	"INSERT OR REPLACE INTO questions (%s) VALUES (:%s)",
	strings.Join(models.QuestionColumns, ", "),
	strings.Join(models.QuestionColumns, ", :"),
)

// ImportQuestions upserts questions by task_id. With replace set, the table
// is cleared first.
func (s *SQLite) ImportQuestions(ctx context.Context, questions []models.Question, replace bool) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM questions"); err != nil {
			return 0, fmt.Errorf("failed to clear questions: %w", err)
		}
	}

	count := 0
	for i := range questions {
		if _, err := tx.NamedExecContext(ctx, insertQuestionSQL, &questions[i]); err != nil {
			return 0, fmt.Errorf("failed to insert question %s: %w", questions[i].TaskID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return count, nil
}

// Questions returns all questions ordered by task_id.
func (s *SQLite) Questions(ctx context.Context) ([]models.Question, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM questions ORDER BY task_id",
		strings.Join(models.QuestionColumns, ", "),
	)

	var questions []models.Question
	if err := s.db.SelectContext(ctx, &questions, query); err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	return questions, nil
}

// Annotations returns one annotator's ratings keyed by task_id.
func (s *SQLite) Annotations(ctx context.Context, annotatorID string) (map[string]models.Rating, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT task_id, value FROM annotations WHERE annotator_id = ?", annotatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.Rating)
	for rows.Next() {
		var taskID string
		var value int
		if err := rows.Scan(&taskID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		out[taskID] = models.Rating(value)
	}
	return out, rows.Err()
}

// SetRating upserts one (annotator, task) rating; last write wins. Rating 0
// deletes the row so a cleared pair reads back as never rated.
func (s *SQLite) SetRating(ctx context.Context, annotatorID, taskID string, r models.Rating) error {
	var exists int
	err := s.db.GetContext(ctx, &exists,
		"SELECT 1 FROM questions WHERE task_id = ?", taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrQuestionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up question: %w", err)
	}

	if r == models.Unrated {
		_, err = s.db.ExecContext(ctx,
			"DELETE FROM annotations WHERE annotator_id = ? AND task_id = ?",
			annotatorID, taskID)
		if err != nil {
			return fmt.Errorf("failed to clear rating: %w", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotations (annotator_id, task_id, value) VALUES (?, ?, ?)
		ON CONFLICT (annotator_id, task_id) DO UPDATE SET value = excluded.value`,
		annotatorID, taskID, int(r))
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// AllAnnotations returns every annotator's ratings, keyed annotator → task.
func (s *SQLite) AllAnnotations(ctx context.Context) (map[string]map[string]models.Rating, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT annotator_id, task_id, value FROM annotations")
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]models.Rating)
	for rows.Next() {
		var annotatorID, taskID string
		var value int
		if err := rows.Scan(&annotatorID, &taskID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		if out[annotatorID] == nil {
			out[annotatorID] = make(map[string]models.Rating)
		}
		out[annotatorID][taskID] = models.Rating(value)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
