package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"newsai/crawler"
	"newsai/storage"
	"newsai/types"
)

type fakeStore struct {
	mu        sync.Mutex
	existing  map[string]bool
	inserted  []*types.Article
	existsErr error
	insertErr error
}

func (s *fakeStore) ExistsByTitle(_ context.Context, title string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existing[title], nil
}

func (s *fakeStore) Insert(_ context.Context, article *types.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, article)
	return nil
}

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, imageURL string) (string, error) {
	return "https://cdn.test/" + path.Base(imageURL), nil
}

type fakeRewriter struct {
	result types.RewriteResult
}

func (r fakeRewriter) Rewrite(_ context.Context, _, _ string) types.RewriteResult {
	return r.result
}

// articlePage is a representative article with breadcrumbs, metadata,
// a thumbnail, three inline images, and a 1200-word body.
func articlePage() string {
	paragraph := strings.TrimSpace(strings.Repeat("từ ", 400))
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta name="description" content="Mô tả bài viết.">
  <meta name="keywords" content="AI, báo chí">
  <meta property="og:image" content="/images/thumb.jpg">
  <meta property="article:published_time" content="2025-03-15T08:30:00+07:00">
</head>
<body>
  <ul class="breadcrumb">
    <li><a href="/cong-nghe">Công nghệ</a></li>
    <li><a href="/cong-nghe/ai">AI</a></li>
  </ul>
  <h1 class="title-detail">AI thay đổi báo chí</h1>
  <p class="author">Nguyễn Văn A</p>
  <div class="article-content">
    <p>%s</p>
    <p>%s</p>
    <p>%s</p>
    <img src="/images/a.jpg">
    <img src="/images/b.jpg">
    <img src="/images/c.jpg">
  </div>
</body>
</html>`, paragraph, paragraph, paragraph)
}

func newArticleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".html") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, articlePage())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIngestFullPipeline(t *testing.T) {
	srv := newArticleServer(t)
	store := &fakeStore{}
	rewriter := fakeRewriter{result: types.RewriteResult{RewriteTitle: "AI đang thay đổi báo chí", Rewritten: "Nội dung viết lại."}}
	o := New(crawler.NewFetcher(srv.Client()), fakeUploader{}, rewriter, store)

	url := srv.URL + "/cong-nghe/ai-thay-doi-4700123.html"
	article, err := o.Ingest(context.Background(), url)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	if article.Title != "AI thay đổi báo chí" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.Slug != "ai-thay-doi-4700123" {
		t.Errorf("Slug = %q", article.Slug)
	}
	if article.ReadTime != 6 {
		t.Errorf("ReadTime = %d; want 6 for 1200 words", article.ReadTime)
	}
	if article.MainCategory != "Công nghệ" || article.SubCategory != "AI" {
		t.Errorf("categories = %q / %q", article.MainCategory, article.SubCategory)
	}
	if article.MainCategorySlug != "cong-nghe" || article.SubCategorySlug != "ai" {
		t.Errorf("category slugs = %q / %q", article.MainCategorySlug, article.SubCategorySlug)
	}
	if article.Thumbnail != "https://cdn.test/thumb.jpg" {
		t.Errorf("Thumbnail = %q", article.Thumbnail)
	}
	if len(article.Images) != 3 {
		t.Errorf("Images = %v; want 3", article.Images)
	}
	if article.RewriteTitle != "AI đang thay đổi báo chí" || article.Rewritten != "Nội dung viết lại." {
		t.Errorf("rewrite fields = %q / %q", article.RewriteTitle, article.Rewritten)
	}
	if !article.Published {
		t.Error("Published should default to true")
	}
	if article.OriginalURL != url {
		t.Errorf("OriginalURL = %q", article.OriginalURL)
	}
	want := time.Date(2025, 3, 15, 8, 30, 0, 0, time.FixedZone("", 7*3600))
	if !article.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v; want %v", article.PublishedAt, want)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted = %d articles; want 1", len(store.inserted))
	}
}

func TestIngestDuplicateTitle(t *testing.T) {
	srv := newArticleServer(t)
	store := &fakeStore{existing: map[string]bool{"AI thay đổi báo chí": true}}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	_, err := o.Ingest(context.Background(), srv.URL+"/bai-viet.html")
	if !errors.Is(err, ErrDuplicateArticle) {
		t.Fatalf("want ErrDuplicateArticle, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("duplicate must not be inserted")
	}
}

func TestIngestWithoutOptionalStages(t *testing.T) {
	// No uploader, no rewriter: the run still persists with empty
	// enrichment fields.
	srv := newArticleServer(t)
	store := &fakeStore{}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	article, err := o.Ingest(context.Background(), srv.URL+"/bai-viet.html")
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if article.Thumbnail != "" || len(article.Images) != 0 {
		t.Errorf("assets should be empty without an uploader: %q %v", article.Thumbnail, article.Images)
	}
	if article.RewriteTitle != "" || article.Rewritten != "" {
		t.Errorf("rewrite fields should be empty without a rewriter")
	}
	if len(store.inserted) != 1 {
		t.Fatal("article should still be persisted")
	}
}

func TestIngestFetchFailure(t *testing.T) {
	srv := newArticleServer(t)
	store := &fakeStore{}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	_, err := o.Ingest(context.Background(), srv.URL+"/not-an-article")
	var fe *crawler.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *crawler.FetchError, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("nothing should be persisted on fetch failure")
	}
}

func TestIngestSurfacesDuplicateSlug(t *testing.T) {
	// Two different titles can normalize to the same slug; the store's
	// unique index rejects the second insert and the run fails loudly
	// instead of silently overwriting.
	srv := newArticleServer(t)
	store := &fakeStore{insertErr: storage.ErrDuplicateSlug}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	_, err := o.Ingest(context.Background(), srv.URL+"/bai-viet.html")
	if !errors.Is(err, storage.ErrDuplicateSlug) {
		t.Fatalf("want ErrDuplicateSlug, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("failed insert must not record an article")
	}
}

func TestIngestSurfacesExistsCheckFailure(t *testing.T) {
	srv := newArticleServer(t)
	store := &fakeStore{existsErr: errors.New("server selection timeout")}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	_, err := o.Ingest(context.Background(), srv.URL+"/bai-viet.html")
	if err == nil {
		t.Fatal("want error when the duplicate check cannot run")
	}
	if errors.Is(err, ErrDuplicateArticle) {
		t.Fatal("a broken store must not masquerade as a duplicate")
	}
	if len(store.inserted) != 0 {
		t.Fatal("nothing may be persisted when the duplicate check fails")
	}
}

func TestIngestAll(t *testing.T) {
	srv := newArticleServer(t)
	store := &fakeStore{}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	urls := []string{
		srv.URL + "/bai-mot.html",
		srv.URL + "/khong-ton-tai", // 404, logged and skipped
		srv.URL + "/bai-hai.html",  // duplicate title of the first
	}
	saved := o.IngestAll(context.Background(), urls)

	// The second .html page repeats the first page's title, but the fake
	// store does not mark titles as existing, so both insert. The 404 is
	// the only skip.
	if len(saved) != 2 {
		t.Fatalf("saved = %d; want 2", len(saved))
	}
}

func TestIngestAllSkipsDuplicates(t *testing.T) {
	srv := newArticleServer(t)
	store := &fakeStore{existing: map[string]bool{"AI thay đổi báo chí": true}}
	o := New(crawler.NewFetcher(srv.Client()), nil, nil, store)

	saved := o.IngestAll(context.Background(), []string{srv.URL + "/bai-mot.html"})
	if len(saved) != 0 {
		t.Fatalf("saved = %d; want 0", len(saved))
	}
}

func TestIngestHandlerVerdicts(t *testing.T) {
	srv := newArticleServer(t)

	t.Run("malformed payload consumed", func(t *testing.T) {
		h := &IngestHandler{Orchestrator: New(crawler.NewFetcher(srv.Client()), nil, nil, &fakeStore{})}
		done, err := h.HandleMessage(context.Background(), []byte("{not json"))
		if !done || err == nil {
			t.Fatalf("malformed payload: done=%v err=%v; want consumed with error", done, err)
		}
	})

	t.Run("empty url consumed", func(t *testing.T) {
		h := &IngestHandler{Orchestrator: New(crawler.NewFetcher(srv.Client()), nil, nil, &fakeStore{})}
		done, err := h.HandleMessage(context.Background(), []byte(`{"url":""}`))
		if !done || err == nil {
			t.Fatalf("empty url: done=%v err=%v; want consumed with error", done, err)
		}
	})

	t.Run("duplicate consumed silently", func(t *testing.T) {
		store := &fakeStore{existing: map[string]bool{"AI thay đổi báo chí": true}}
		h := &IngestHandler{Orchestrator: New(crawler.NewFetcher(srv.Client()), nil, nil, store)}
		done, err := h.HandleMessage(context.Background(), []byte(`{"url":"`+srv.URL+`/bai.html"}`))
		if !done || err != nil {
			t.Fatalf("duplicate: done=%v err=%v; want consumed without error", done, err)
		}
	})

	t.Run("fetch failure left for retry", func(t *testing.T) {
		h := &IngestHandler{Orchestrator: New(crawler.NewFetcher(srv.Client()), nil, nil, &fakeStore{})}
		done, err := h.HandleMessage(context.Background(), []byte(`{"url":"`+srv.URL+`/404"}`))
		if done || err == nil {
			t.Fatalf("fetch failure: done=%v err=%v; want unconsumed with error", done, err)
		}
	})

	t.Run("success consumed", func(t *testing.T) {
		h := &IngestHandler{Orchestrator: New(crawler.NewFetcher(srv.Client()), nil, nil, &fakeStore{})}
		done, err := h.HandleMessage(context.Background(), []byte(`{"url":"`+srv.URL+`/bai.html"}`))
		if !done || err != nil {
			t.Fatalf("success: done=%v err=%v", done, err)
		}
	})
}
