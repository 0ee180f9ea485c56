package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRewriteRoutes registers the rewrite passthrough used to vet the
// prompt against sample articles without persisting anything.
func RegisterRewriteRoutes(r *gin.Engine, deps Deps) {
	r.POST("/api/rewrite", handleRewrite(deps))
}

type rewriteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func handleRewrite(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Rewriter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rewrite not configured"})
			return
		}

		var req rewriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
			return
		}

		result := deps.Rewriter.Rewrite(c.Request.Context(), req.Title, req.Content)
		c.JSON(http.StatusOK, result)
	}
}
