package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newsai/config"
)

// RegisterCategoryRoutes registers the taxonomy and category listing
// endpoints the site navigation is built from.
func RegisterCategoryRoutes(r *gin.Engine, deps Deps) {
	r.GET("/api/categories", handleCategories)
	r.GET("/api/category/:slug/posts", handleCategoryPosts(deps))
}

func handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": config.Categories})
}

// handleCategoryPosts lists the newest posts of one main category.
func handleCategoryPosts(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
		if err != nil || limit < 1 {
			limit = 20
		}

		posts, err := deps.Store.ListByCategorySlug(c.Request.Context(), c.Param("slug"), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts})
	}
}
