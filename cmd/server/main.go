package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labeling-service/internal/config"
	"labeling-service/internal/handler"
	"labeling-service/internal/service"
	"labeling-service/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting Labeling Service...")

	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Pick the storage backend: SQLite when the database file exists or
	// ANNOTATION_DB is set, the Excel workbook otherwise.
	st, err := store.Open(store.Options{
		DBPath:      cfg.Database.Path,
		ForceSQLite: config.DatabaseForced(),
		ExcelPath:   cfg.Excel.Path,
		Sheet:       cfg.Excel.Sheet,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	logger.Info("Storage backend selected", zap.String("backend", st.Backend()))

	// Seed questions from the bundled workbook on first run
	if sqlite, ok := st.(*store.SQLite); ok {
		if _, err := sqlite.Seed(context.Background(), cfg.Excel.Path, cfg.Excel.Sheet); err != nil {
			logger.Fatal("Failed to seed questions", zap.Error(err))
		}
	}

	// Initialize service and HTTP handler
	svc := service.New(st, logger)
	apiHandler := handler.NewHandler(svc, cfg.Excel.Sheet, cfg.Static.Dir, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handler.RequestLogger(logger))

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register routes
	apiHandler.RegisterRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("Server starting", zap.String("address", serverAddr))

	// Graceful shutdown
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Labeling Service is running",
		zap.String("port", cfg.Server.Port),
		zap.String("backend", st.Backend()))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
