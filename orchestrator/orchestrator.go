package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/araddon/dateparse"

	"newsai/config"
	"newsai/crawler"
	"newsai/normalize"
	"newsai/types"
)

// ErrDuplicateArticle marks a run rejected because a post with the same
// title is already stored. It is an outcome, not a failure: callers that
// re-crawl feeds are expected to skip it silently.
var ErrDuplicateArticle = errors.New("article already ingested")

// Store is the persistence surface the pipeline needs.
type Store interface {
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Insert(ctx context.Context, article *types.Article) error
}

// Rewriter is the AI enrichment stage. Implementations never fail the run.
type Rewriter interface {
	Rewrite(ctx context.Context, title, content string) types.RewriteResult
}

// Orchestrator sequences one ingestion run: fetch, classify, extract,
// resolve assets, normalize, rewrite, duplicate guard, persist.
type Orchestrator struct {
	fetcher  *crawler.Fetcher
	uploader crawler.Uploader
	rewriter Rewriter
	store    Store
}

// New wires the pipeline stages. Uploader and rewriter may be nil; both
// stages are best-effort and a missing dependency just leaves the
// corresponding fields empty.
func New(fetcher *crawler.Fetcher, uploader crawler.Uploader, rewriter Rewriter, store Store) *Orchestrator {
	if fetcher == nil {
		fetcher = crawler.NewFetcher(nil)
	}
	return &Orchestrator{
		fetcher:  fetcher,
		uploader: uploader,
		rewriter: rewriter,
		store:    store,
	}
}

// Ingest runs the full pipeline for one article URL. It returns the
// persisted record, ErrDuplicateArticle for an already-stored title, or a
// typed failure (crawler.FetchError, crawler.ExtractionError, storage
// errors). Asset and rewrite failures never fail the run.
func (o *Orchestrator) Ingest(ctx context.Context, url string) (*types.Article, error) {
	profile := crawler.Classify(url)
	log.Printf("ingest %s (source: %s)", url, profile.Name)

	doc, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	fields, err := crawler.Extract(doc, profile)
	if err != nil {
		return nil, err
	}

	var assets crawler.Assets
	if o.uploader != nil {
		assets = crawler.ResolveAssets(ctx, doc, o.uploader)
	}

	slug := normalize.SlugFromURL(url, fields.Title)
	readTime := normalize.ReadTime(fields.Content, config.ReadingRate)

	var rewritten types.RewriteResult
	if o.rewriter != nil {
		rctx, cancel := context.WithTimeout(ctx, config.RewriteTimeout)
		rewritten = o.rewriter.Rewrite(rctx, fields.Title, fields.Content)
		cancel()
	}

	exists, err := o.store.ExistsByTitle(ctx, fields.Title)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		log.Printf("  duplicate title, skipping: %s", fields.Title)
		return nil, ErrDuplicateArticle
	}

	now := time.Now()
	article := &types.Article{
		Title:            fields.Title,
		RewriteTitle:     rewritten.RewriteTitle,
		Slug:             slug,
		Content:          fields.Content,
		Rewritten:        rewritten.Rewritten,
		HTMLContent:      fields.HTMLContent,
		Thumbnail:        assets.Thumbnail,
		Images:           assets.Images,
		Description:      fields.Description,
		Author:           fields.Author,
		PublishedAt:      parsePublishedAt(fields.PublishedAt, now),
		Source:           profile.Name,
		MainCategory:     fields.MainCategory,
		SubCategory:      fields.SubCategory,
		MainCategorySlug: normalize.Slugify(fields.MainCategory),
		SubCategorySlug:  normalize.Slugify(fields.SubCategory),
		Tags:             fields.Tags,
		ReadTime:         readTime,
		OriginalURL:      url,
		Published:        true,
		CreatedAt:        now,
	}

	if err := o.store.Insert(ctx, article); err != nil {
		return nil, err
	}

	log.Printf("  ✓ ingested: %s (slug %s)", article.Title, article.Slug)
	return article, nil
}

// IngestAll processes a batch of URLs sequentially, skipping rejected
// duplicates and logging per-URL failures without stopping the batch.
// It returns the successfully persisted records.
func (o *Orchestrator) IngestAll(ctx context.Context, urls []string) []*types.Article {
	var saved []*types.Article
	for i, u := range urls {
		article, err := o.Ingest(ctx, u)
		if errors.Is(err, ErrDuplicateArticle) {
			continue
		}
		if err != nil {
			log.Printf("  [%d/%d] ingest failed for %s: %v", i+1, len(urls), u, err)
			continue
		}
		saved = append(saved, article)
	}
	return saved
}

// parsePublishedAt converts the raw extracted date string best-effort.
// Publishers emit everything from RFC 3339 metadata to free-text
// timestamps; anything unparsable falls back to crawl time.
func parsePublishedAt(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return t
	}
	return fallback
}
