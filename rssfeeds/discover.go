package rssfeeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsai/config"
)

// headlineSelectors covers the homepage teaser links of the supported
// publishers.
const headlineSelectors = ".title-news a, .article-title a, h3.title a, .story__heading a"

// DiscoverLinks scrapes a publisher homepage for article links. Only
// same-host absolute links are returned, deduplicated in page order.
func DiscoverLinks(ctx context.Context, client *http.Client, homeURL string) ([]string, error) {
	if client == nil {
		client = &http.Client{Timeout: config.FetchTimeout}
	}

	base, err := url.Parse(homeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid homepage url %s: %w", homeURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, homeURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch homepage %s: %w", homeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("homepage %s returned %s", homeURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse homepage: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find(headlineSelectors).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host {
			return
		}

		link := resolved.String()
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	return links, nil
}
