package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsai/crawler"
	"newsai/orchestrator"
)

// RegisterCrawlRoutes registers the ingestion trigger endpoints.
func RegisterCrawlRoutes(r *gin.Engine, deps Deps) {
	r.POST("/api/crawl", handleCrawl(deps))
	r.POST("/api/crawl/batch", handleBatchCrawl(deps))
	r.POST("/api/rss/refresh", handleRSSRefresh(deps))
}

type crawlRequest struct {
	URL string `json:"url" binding:"required"`
}

// handleCrawl ingests a single article URL synchronously and returns the
// persisted record.
func handleCrawl(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req crawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing url"})
			return
		}

		article, err := deps.Orchestrator.Ingest(c.Request.Context(), req.URL)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"success": true, "post": article})
		case errors.Is(err, orchestrator.ErrDuplicateArticle):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "duplicate article"})
		default:
			status := http.StatusInternalServerError
			var fetchErr *crawler.FetchError
			var extractErr *crawler.ExtractionError
			if errors.As(err, &fetchErr) || errors.As(err, &extractErr) {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{"success": false, "error": err.Error()})
		}
	}
}

type batchCrawlRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// handleBatchCrawl ingests a list of URLs in one synchronous sweep.
// Duplicates and per-URL failures are skipped; the response carries the
// records that persisted.
func handleBatchCrawl(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req batchCrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing urls"})
			return
		}

		saved := deps.Orchestrator.IngestAll(c.Request.Context(), req.URLs)
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(saved), "posts": saved})
	}
}

// handleRSSRefresh triggers one discovery sweep. It runs asynchronously
// and returns 202 Accepted immediately.
func handleRSSRefresh(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Discovery == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discovery not configured"})
			return
		}
		go func() {
			_ = deps.Discovery.Run(context.Background())
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
	}
}
