package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labeling-service/internal/export"
	"labeling-service/internal/models"
	"labeling-service/internal/service"
	"labeling-service/internal/store"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler handles HTTP requests
type Handler struct {
	svc       *service.Service
	sheet     string
	staticDir string
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc *service.Service, sheet, staticDir string, logger *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		sheet:     sheet,
		staticDir: staticDir,
		logger:    logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/questions", h.GetQuestions)
		api.POST("/annotate", h.Annotate)
		api.GET("/export", h.Export)
	}

	// Static UI
	r.StaticFile("/", filepath.Join(h.staticDir, "index.html"))
	r.Static("/static", h.staticDir)

	// Health check
	r.GET("/health", h.HealthCheck)
}

// GetQuestions returns every question with the calling user's ratings.
func (h *Handler) GetQuestions(c *gin.Context) {
	user := c.Query("user")

	rows, annotatorID, err := h.svc.QuestionsFor(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrWorkbookMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to load questions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var column any
	if annotatorID != "" {
		column = annotatorID
	}
	c.JSON(http.StatusOK, gin.H{
		"questions":        rows,
		"annotator_column": column,
	})
}

// Annotate upserts one rating for a (user, task) pair.
func (h *Handler) Annotate(c *gin.Context) {
	var req models.AnnotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.SetRating(c.Request.Context(), req.User, req.TaskID, req.Value)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true, "task_id": req.TaskID, "value": req.Value})
	case errors.Is(err, service.ErrUserRequired),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrTaskRequired),
		errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("task_id not found: %s", req.TaskID)})
	case errors.Is(err, store.ErrWorkbookMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to save rating", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Export streams all questions plus every annotator's ratings as a workbook.
func (h *Handler) Export(c *gin.Context) {
	table, err := h.svc.Export(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Type", xlsxMIME)
	c.Header("Content-Disposition", "attachment; filename="+export.Filename)

	if err := table.Write(c.Writer, h.sheet); err != nil {
		h.logger.Error("Failed to write export workbook", zap.Error(err))
	}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labeling-service",
		"backend": h.svc.Backend(),
	})
}
