// Command export dumps the SQLite questions plus all annotations to a
// workbook on disk. For a deployed instance use GET /api/export instead.
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"labeling-service/internal/export"
	"labeling-service/internal/store"
	"labeling-service/internal/workbook"
)

func main() {
	dbPath := flag.String("db", "./data/annotations.db", "path to the SQLite database")
	output := flag.String("output", "./data/"+export.Filename, "output workbook path")
	sheet := flag.String("sheet", workbook.DefaultSheet, "worksheet name")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if _, err := os.Stat(*dbPath); err != nil {
		logger.Fatal("Database not found", zap.String("db", *dbPath), zap.Error(err))
	}

	st, err := store.NewSQLite(*dbPath, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer st.Close()

	ctx := context.Background()
	questions, err := st.Questions(ctx)
	if err != nil {
		logger.Fatal("Failed to load questions", zap.Error(err))
	}
	if len(questions) == 0 {
		logger.Fatal("No questions in database, run cmd/seed first")
	}

	annotations, err := st.AllAnnotations(ctx)
	if err != nil {
		logger.Fatal("Failed to load annotations", zap.Error(err))
	}

	table := export.Flatten(questions, annotations)
	if err := table.WriteFile(*output, *sheet); err != nil {
		logger.Fatal("Failed to write workbook", zap.Error(err))
	}

	logger.Info("Exported annotations",
		zap.Int("questions", len(table.Rows)),
		zap.Int("annotators", len(table.Annotators)),
		zap.String("output", *output))
}
