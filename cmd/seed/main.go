// Command seed imports a questions workbook into the SQLite database,
// creating the schema if needed. By default the questions table is cleared
// first; annotations are never touched.
package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"labeling-service/internal/store"
	"labeling-service/internal/workbook"
)

func main() {
	excelPath := flag.String("excel", "./data/dr_questions.xlsx", "path to the questions workbook")
	dbPath := flag.String("db", "./data/annotations.db", "path to the SQLite database")
	sheet := flag.String("sheet", workbook.DefaultSheet, "worksheet name")
	noReplace := flag.Bool("no-replace", false, "keep existing questions, upsert by task_id")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	sh, err := workbook.ReadSheet(*excelPath, *sheet)
	if err != nil {
		logger.Fatal("Failed to read workbook", zap.Error(err))
	}
	questions, err := sh.Questions()
	if err != nil {
		logger.Fatal("Failed to decode questions", zap.Error(err))
	}

	st, err := store.NewSQLite(*dbPath, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer st.Close()

	count, err := st.ImportQuestions(context.Background(), questions, !*noReplace)
	if err != nil {
		logger.Fatal("Failed to import questions", zap.Error(err))
	}

	logger.Info("Uploaded questions",
		zap.Int("count", count),
		zap.String("db", *dbPath))
}
