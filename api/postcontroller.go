package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsai/storage"
)

// RegisterPostRoutes registers the narrow post bookkeeping endpoints.
// The public read/search surface is served elsewhere.
func RegisterPostRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/post")
	g.GET("/check", handlePostCheck(deps))
	g.GET("/:slug", handleGetPost(deps))
	g.POST("/:slug/facebook", handleMarkFacebookPosted(deps))
}

// handleGetPost loads one post by slug.
func handleGetPost(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := deps.Store.FindBySlug(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"post": post})
	}
}

// handlePostCheck reports whether a title is already ingested, so feed
// schedulers can skip known articles before crawling.
func handlePostCheck(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.Query("title")
		if title == "" {
			c.JSON(http.StatusOK, gin.H{"exists": false})
			return
		}

		exists, err := deps.Store.ExistsByTitle(c.Request.Context(), title)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
	}
}

type facebookPostedRequest struct {
	PostID string `json:"post_id" binding:"required"`
}

// handleMarkFacebookPosted records a completed Facebook cross-post.
func handleMarkFacebookPosted(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req facebookPostedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing post_id"})
			return
		}

		err := deps.Store.MarkFacebookPosted(c.Request.Context(), c.Param("slug"), req.PostID)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
