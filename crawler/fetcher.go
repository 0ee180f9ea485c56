package crawler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsai/config"
)

// Document is a fetched page within one ingestion run. It carries the raw
// HTML alongside the parsed tree because the readability fallback needs the
// original markup.
type Document struct {
	URL  string
	HTML string
	doc  *goquery.Document
}

// Find proxies a selector query to the parsed document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Fetcher downloads article pages. No retries happen at this layer; the
// caller decides whether a failed URL is worth another attempt.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; a nil client gets the default timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: config.FetchTimeout}
	}
	return &Fetcher{client: client}
}

// Fetch retrieves and parses the page at url. Network failures, timeouts,
// and non-2xx responses return a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	html := string(body)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	return &Document{URL: url, HTML: html, doc: doc}, nil
}

// ParseDocument builds a Document from already-downloaded HTML. Used by
// tests and by callers that fetch through other transports.
func ParseDocument(url, html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{URL: url, HTML: html, doc: doc}, nil
}
