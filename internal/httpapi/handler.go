package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/reel-remix/internal/history"
	"github.com/nguyentantai21042004/reel-remix/internal/logger"
	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"github.com/nguyentantai21042004/reel-remix/internal/pipeline"
)

// DownloadRequest is the body of POST /api/download.
type DownloadRequest struct {
	URLs     []string `json:"urls"`
	URL      string   `json:"url"`
	ViralURL string   `json:"viralUrl"`
}

// toBatch prefers urls over the single url field.
func (r DownloadRequest) toBatch() pipeline.Request {
	own := r.URLs
	if len(own) == 0 && r.URL != "" {
		own = []string{r.URL}
	}
	return pipeline.Request{Own: own, Reference: r.ViralURL}
}

// Handler serves the batch API.
type Handler struct {
	batch   pipeline.Batch
	history history.Repository
	timeout time.Duration
	logger  logger.Logger
}

// NewHandler creates a Handler. hist may be nil when history is disabled.
func NewHandler(batch pipeline.Batch, hist history.Repository, timeout time.Duration, log logger.Logger) *Handler {
	return &Handler{batch: batch, history: hist, timeout: timeout, logger: log}
}

// Download runs one batch and returns the UI response.
func (h *Handler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.batch.Run(ctx, req.toBatch())
	if err != nil {
		if errors.Is(err, pipeline.ErrNothingProcessed) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No videos processed."})
			return
		}
		h.logger.Error(ctx, "Error processing batch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewBatchResponse(result))
}

// History lists recent batch runs.
func (h *Handler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	runs, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to list history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
