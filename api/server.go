package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"newsai/orchestrator"
	"newsai/types"
)

// Ingester runs the pipeline for article URLs.
type Ingester interface {
	Ingest(ctx context.Context, url string) (*types.Article, error)
	IngestAll(ctx context.Context, urls []string) []*types.Article
}

// PostStore is the slice of the persistence layer the handlers touch.
type PostStore interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	FindBySlug(ctx context.Context, slug string) (*types.Article, error)
	ListByCategorySlug(ctx context.Context, categorySlug string, limit int64) ([]types.Article, error)
	MarkFacebookPosted(ctx context.Context, slug, postID string) error
}

// Deps carries everything the route handlers need.
type Deps struct {
	Orchestrator Ingester
	Discovery    *orchestrator.Discovery
	Rewriter     orchestrator.Rewriter
	Store        PostStore
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterCrawlRoutes(r, deps)
	RegisterPostRoutes(r, deps)
	RegisterCategoryRoutes(r, deps)
	RegisterRewriteRoutes(r, deps)
	return r
}
