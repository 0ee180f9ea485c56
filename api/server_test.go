package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"newsai/crawler"
	"newsai/orchestrator"
	"newsai/storage"
	"newsai/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIngester struct {
	article *types.Article
	err     error
	gotURL  string
	gotURLs []string
}

func (f *fakeIngester) Ingest(_ context.Context, url string) (*types.Article, error) {
	f.gotURL = url
	return f.article, f.err
}

func (f *fakeIngester) IngestAll(_ context.Context, urls []string) []*types.Article {
	f.gotURLs = urls
	if f.article == nil {
		return nil
	}
	return []*types.Article{f.article}
}

type fakePostStore struct {
	titles    map[string]bool
	posts     map[string]*types.Article
	byCat     map[string][]types.Article
	marked    map[string]string
	existsErr error
	markErr   error
}

func (f *fakePostStore) ExistsByTitle(_ context.Context, title string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.titles[title], nil
}

func (f *fakePostStore) FindBySlug(_ context.Context, slug string) (*types.Article, error) {
	if p, ok := f.posts[slug]; ok {
		return p, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakePostStore) ListByCategorySlug(_ context.Context, categorySlug string, _ int64) ([]types.Article, error) {
	return f.byCat[categorySlug], nil
}

func (f *fakePostStore) MarkFacebookPosted(_ context.Context, slug, postID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	if f.marked == nil {
		f.marked = map[string]string{}
	}
	f.marked[slug] = postID
	return nil
}

type fakeRewriter struct {
	result types.RewriteResult
}

func (f fakeRewriter) Rewrite(_ context.Context, _, _ string) types.RewriteResult {
	return f.result
}

func doRequest(t *testing.T, deps Deps, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	NewRouter(deps).ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(t, Deps{}, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCrawlSuccess(t *testing.T) {
	ing := &fakeIngester{article: &types.Article{Title: "Bài mới", Slug: "bai-moi"}}
	w := doRequest(t, Deps{Orchestrator: ing}, http.MethodPost, "/api/crawl", `{"url":"https://vnexpress.net/bai-moi.html"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	if ing.gotURL != "https://vnexpress.net/bai-moi.html" {
		t.Errorf("ingested url = %q", ing.gotURL)
	}

	var resp struct {
		Success bool          `json:"success"`
		Post    types.Article `json:"post"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.Post.Slug != "bai-moi" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestCrawlStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", orchestrator.ErrDuplicateArticle, http.StatusConflict},
		{"fetch failure", &crawler.FetchError{URL: "u", Status: 404}, http.StatusBadGateway},
		{"extraction failure", &crawler.ExtractionError{URL: "u"}, http.StatusBadGateway},
		{"storage failure", errors.New("insert failed"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doRequest(t, Deps{Orchestrator: &fakeIngester{err: c.err}},
				http.MethodPost, "/api/crawl", `{"url":"https://vnexpress.net/x.html"}`)
			if w.Code != c.want {
				t.Fatalf("status = %d; want %d", w.Code, c.want)
			}
		})
	}
}

func TestCrawlMissingURL(t *testing.T) {
	w := doRequest(t, Deps{Orchestrator: &fakeIngester{}}, http.MethodPost, "/api/crawl", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestBatchCrawl(t *testing.T) {
	ing := &fakeIngester{article: &types.Article{Title: "Bài mới", Slug: "bai-moi"}}
	body := `{"urls":["https://vnexpress.net/mot.html","https://vnexpress.net/hai.html"]}`
	w := doRequest(t, Deps{Orchestrator: ing}, http.MethodPost, "/api/crawl/batch", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	if len(ing.gotURLs) != 2 {
		t.Fatalf("urls handed to ingester = %v", ing.gotURLs)
	}

	var resp struct {
		Success bool            `json:"success"`
		Count   int             `json:"count"`
		Posts   []types.Article `json:"posts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.Count != 1 || len(resp.Posts) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestBatchCrawlMissingURLs(t *testing.T) {
	for _, body := range []string{`{}`, `{"urls":[]}`} {
		w := doRequest(t, Deps{Orchestrator: &fakeIngester{}}, http.MethodPost, "/api/crawl/batch", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d; want 400", body, w.Code)
		}
	}
}

func TestRSSRefreshWithoutDiscovery(t *testing.T) {
	w := doRequest(t, Deps{}, http.MethodPost, "/api/rss/refresh", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", w.Code)
	}
}

func TestPostCheck(t *testing.T) {
	store := &fakePostStore{titles: map[string]bool{"Bài đã có": true}}

	w := doRequest(t, Deps{Store: store}, http.MethodGet, "/api/post/check?title="+url.QueryEscape("Bài đã có"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Exists {
		t.Fatal("exists = false; want true")
	}

	w = doRequest(t, Deps{Store: store}, http.MethodGet, "/api/post/check?title="+url.QueryEscape("Bài chưa có"), "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Exists {
		t.Fatal("exists = true; want false")
	}
}

func TestPostCheckEmptyTitle(t *testing.T) {
	w := doRequest(t, Deps{Store: &fakePostStore{}}, http.MethodGet, "/api/post/check", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"exists":false`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMarkFacebookPosted(t *testing.T) {
	store := &fakePostStore{}
	w := doRequest(t, Deps{Store: store}, http.MethodPost, "/api/post/bai-moi/facebook", `{"post_id":"fb123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	if store.marked["bai-moi"] != "fb123" {
		t.Fatalf("marked = %v", store.marked)
	}
}

func TestMarkFacebookPostedNotFound(t *testing.T) {
	store := &fakePostStore{markErr: storage.ErrNotFound}
	w := doRequest(t, Deps{Store: store}, http.MethodPost, "/api/post/khong-co/facebook", `{"post_id":"fb123"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestGetPost(t *testing.T) {
	store := &fakePostStore{posts: map[string]*types.Article{
		"bai-moi": {Title: "Bài mới", Slug: "bai-moi"},
	}}

	w := doRequest(t, Deps{Store: store}, http.MethodGet, "/api/post/bai-moi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, Deps{Store: store}, http.MethodGet, "/api/post/khong-co", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
}

func TestCategories(t *testing.T) {
	w := doRequest(t, Deps{}, http.MethodGet, "/api/categories", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cong-nghe") {
		t.Fatalf("body missing taxonomy: %s", w.Body.String())
	}
}

func TestCategoryPosts(t *testing.T) {
	store := &fakePostStore{byCat: map[string][]types.Article{
		"cong-nghe": {{Title: "Bài công nghệ", Slug: "bai-cong-nghe", MainCategorySlug: "cong-nghe"}},
	}}

	w := doRequest(t, Deps{Store: store}, http.MethodGet, "/api/category/cong-nghe/posts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Posts []types.Article `json:"posts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Posts) != 1 || resp.Posts[0].Slug != "bai-cong-nghe" {
		t.Fatalf("posts = %+v", resp.Posts)
	}
}

func TestRewritePassthrough(t *testing.T) {
	deps := Deps{Rewriter: fakeRewriter{result: types.RewriteResult{RewriteTitle: "Mới", Rewritten: "Nội dung mới"}}}
	w := doRequest(t, deps, http.MethodPost, "/api/rewrite", `{"title":"Cũ","content":"Nội dung cũ"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}

	var resp types.RewriteResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.RewriteTitle != "Mới" || resp.Rewritten != "Nội dung mới" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestRewriteUnconfigured(t *testing.T) {
	w := doRequest(t, Deps{}, http.MethodPost, "/api/rewrite", `{"title":"a","content":"b"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", w.Code)
	}
}
