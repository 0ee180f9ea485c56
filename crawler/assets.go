package crawler

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"newsai/config"
)

// Uploader mirrors a remote image to the media store and returns the
// hosted URL.
type Uploader interface {
	Upload(ctx context.Context, imageURL string) (string, error)
}

// Assets is the result of image discovery and upload for one article.
// Thumbnail is empty when no candidate was found or its upload failed;
// Images holds only the successfully hosted inline images, in discovery
// order.
type Assets struct {
	Thumbnail string
	Images    []string
}

// contentImageSelectors covers the content containers images live in.
const contentImageSelectors = ".fck_detail img, .article-content img, .dt-news__content img, .content-detail img, .article-body img"

// lazyAttrs is the per-element attribute priority; lazy-loading markup
// often keeps a placeholder in src and the real image in a data attribute.
var lazyAttrs = []string{"data-src", "src", "data-original", "data-lazy-src"}

// ResolveAssets discovers the thumbnail and inline images, normalizes and
// deduplicates their URLs, and uploads every distinct candidate with
// bounded concurrency. One failed upload never affects the others or the
// run: the failing asset is simply absent from the result.
func ResolveAssets(ctx context.Context, doc *Document, uploader Uploader) Assets {
	var assets Assets

	thumbURL := thumbnailCandidate(doc)
	inline := inlineCandidates(doc)

	// One upload per distinct absolute URL: the og:image may also appear
	// inline, in which case the single hosted copy serves both roles.
	urls := make([]string, 0, len(inline)+1)
	if thumbURL != "" {
		urls = append(urls, thumbURL)
	}
	for _, u := range inline {
		if u != thumbURL {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return assets
	}

	hosted := make(map[string]string, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, config.UploadWorkers)

	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			h, err := uploader.Upload(ctx, u)
			if err != nil {
				log.Printf("image upload failed for %s: %v", u, err)
				return
			}
			mu.Lock()
			hosted[u] = h
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	if thumbURL != "" {
		assets.Thumbnail = hosted[thumbURL]
	}
	// Inline results keep candidate discovery order, not upload order.
	for _, u := range inline {
		if h := hosted[u]; h != "" {
			assets.Images = append(assets.Images, h)
		}
	}
	return assets
}

// thumbnailCandidate picks the page's representative image:
// og:image, then twitter:image, then the first hero-image element.
func thumbnailCandidate(doc *Document) string {
	raw := firstNonEmpty(doc,
		metaContent(`meta[property="og:image"]`),
		metaContent(`meta[name="twitter:image"]`),
		func(d *Document) string {
			src, _ := d.Find(".article-avatar img, .dt-news__avatar img, .main-img img").First().Attr("src")
			return src
		},
	)
	fixed := fixImageURL(raw, doc.URL)
	if isPlaceholder(fixed) {
		return ""
	}
	return fixed
}

// inlineCandidates collects distinct content-image URLs in document order.
func inlineCandidates(doc *Document) []string {
	seen := make(map[string]struct{})
	var candidates []string

	doc.Find(contentImageSelectors).Each(func(_ int, img *goquery.Selection) {
		var src string
		for _, attr := range lazyAttrs {
			if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
				src = strings.TrimSpace(v)
				break
			}
		}
		if src == "" {
			return
		}

		fixed := fixImageURL(src, doc.URL)
		if fixed == "" || isPlaceholder(fixed) {
			return
		}
		if _, dup := seen[fixed]; dup {
			return
		}
		seen[fixed] = struct{}{}
		candidates = append(candidates, fixed)
	})

	return candidates
}

// fixImageURL resolves relative image URLs against the article's own URL.
func fixImageURL(raw, docURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	base, err := url.Parse(docURL)
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isPlaceholder filters known blank/spacer tracking images.
func isPlaceholder(u string) bool {
	return strings.Contains(u, "spacer.gif") || strings.Contains(u, "blank.gif")
}
