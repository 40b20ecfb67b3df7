// Package api serves the tests API consumed by the web UI.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"quiz-ladders/internal/domain"
)

// Catalog is the use-case surface the handlers need.
type Catalog interface {
	ListTests(ctx context.Context) ([]domain.TestSummary, error)
	Quiz(ctx context.Context, testID string) (domain.Quiz, error)
	SaveTest(ctx context.Context, t domain.Test) (string, error)
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// ListTests handles GET /api/tests.
func (h *Handler) ListTests(c *gin.Context) {
	tests, err := h.catalog.ListTests(c.Request.Context())
	if err != nil {
		log.Printf("Error listing tests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tests"})
		return
	}
	if tests == nil {
		tests = []domain.TestSummary{}
	}
	c.JSON(http.StatusOK, tests)
}

// GetQuiz handles GET /api/quiz/:id.
func (h *Handler) GetQuiz(c *gin.Context) {
	id := c.Param("id")
	quiz, err := h.catalog.Quiz(c.Request.Context(), id)
	if errors.Is(err, domain.ErrTestNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found", "id": id})
		return
	}
	if err != nil {
		log.Printf("Error loading test %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load test"})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// SaveTest handles POST /api/tests.
func (h *Handler) SaveTest(c *gin.Context) {
	var req domain.Test
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	saved, err := h.catalog.SaveTest(c.Request.Context(), req)
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Message})
		return
	}
	if err != nil {
		log.Printf("Error saving test %s: %v", req.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "saved": saved})
}
