package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quillforge/quillforge/src/models"
	"github.com/quillforge/quillforge/src/orchestrator"
)

type CompletionHandler struct {
	service *orchestrator.Service
}

func NewCompletionHandler(service *orchestrator.Service) *CompletionHandler {
	return &CompletionHandler{service: service}
}

func (h *CompletionHandler) HandleCompletion(c *gin.Context) {
	var req models.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Complete(c.Request.Context(), &req)
	if err != nil {
		status, payload := mapError(err)
		c.JSON(status, payload)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CompletionHandler) HandleProviderHealth(c *gin.Context) {
	health, err := h.service.ProviderHealth(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, health)
}

func (h *CompletionHandler) HandleUsageStats(c *gin.Context) {
	stats, err := h.service.UsageStats(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CompletionHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

// mapError translates the error taxonomy into HTTP status codes so a caller
// can tell "your input was rejected" from "the service is degraded".
func mapError(err error) (int, gin.H) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	}

	if errors.Is(err, models.ErrAllProvidersUnavailable) {
		return http.StatusServiceUnavailable, gin.H{"error": err.Error()}
	}

	var providerErr *models.ProviderError
	if errors.As(err, &providerErr) {
		return http.StatusBadGateway, gin.H{
			"error":    err.Error(),
			"provider": providerErr.Provider,
		}
	}

	return http.StatusInternalServerError, gin.H{"error": err.Error()}
}
