package crawler

import (
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Fields is the intermediate extraction record. Title is the only field
// required to be non-empty; everything else may be absent.
type Fields struct {
	Title        string
	Description  string
	Author       string
	PublishedAt  string // raw string as found in the page; parsed downstream
	Tags         []string
	MainCategory string
	SubCategory  string
	Paragraphs   []string
	Content      string // paragraphs joined with blank lines
	HTMLContent  string // raw inner HTML of the first matching container
}

// strategy is one step of a per-field fallback chain: it either yields a
// value or an empty string, and the runner takes the first non-empty result.
type strategy func(*Document) string

func firstNonEmpty(doc *Document, chain ...strategy) string {
	for _, s := range chain {
		if v := strings.TrimSpace(s(doc)); v != "" {
			return v
		}
	}
	return ""
}

func selectorText(selector string) strategy {
	return func(d *Document) string {
		return d.Find(selector).First().Text()
	}
}

func metaContent(selector string) strategy {
	return func(d *Document) string {
		v, _ := d.Find(selector).First().Attr("content")
		return v
	}
}

// authorPrefixExpr trims honorifics the byline often starts with.
var authorPrefixExpr = regexp.MustCompile(`(?i)^(Bởi|Tác giả|Author|By)\s*`)

// Extract pulls all article fields out of the document using the profile's
// selectors first and generic fallbacks after. It returns *ExtractionError
// only when no title can be found anywhere.
func Extract(doc *Document, profile SourceProfile) (*Fields, error) {
	f := &Fields{}

	titleChain := make([]strategy, 0, len(profile.TitleSelectors)+4)
	for _, sel := range profile.TitleSelectors {
		titleChain = append(titleChain, selectorText(sel))
	}
	for _, sel := range Generic.TitleSelectors {
		titleChain = append(titleChain, selectorText(sel))
	}
	titleChain = append(titleChain,
		metaContent(`meta[property="og:title"]`),
		selectorText("title"),
		selectorText("h1"),
	)
	f.Title = firstNonEmpty(doc, titleChain...)
	if f.Title == "" {
		return nil, &ExtractionError{URL: doc.URL}
	}

	f.Description = firstNonEmpty(doc,
		metaContent(`meta[name="description"]`),
		metaContent(`meta[property="og:description"]`),
		selectorText(".article-summary, .article-sapo, .sapo, .description"),
	)

	authorChain := make([]strategy, 0, len(profile.AuthorSelectors)+1)
	for _, sel := range profile.AuthorSelectors {
		authorChain = append(authorChain, selectorText(sel))
	}
	authorChain = append(authorChain, selectorText(strings.Join(Generic.AuthorSelectors, ", ")))
	f.Author = authorPrefixExpr.ReplaceAllString(firstNonEmpty(doc, authorChain...), "")
	f.Author = strings.TrimSpace(f.Author)

	f.PublishedAt = firstNonEmpty(doc,
		metaContent(`meta[property="article:published_time"]`),
		metaContent(`meta[itemprop="datePublished"]`),
		func(d *Document) string {
			v, _ := d.Find(`time[itemprop="datePublished"]`).First().Attr("datetime")
			return v
		},
		selectorText(".date, .time-update, .time, .article-date, .article__date"),
	)

	f.Tags = extractTags(doc)
	f.MainCategory, f.SubCategory = extractCategories(doc)

	extractBody(doc, profile, f)

	return f, nil
}

func extractTags(doc *Document) []string {
	if keywords, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		var tags []string
		for _, t := range strings.Split(keywords, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		if len(tags) > 0 {
			return tags
		}
	}

	var tags []string
	doc.Find(".tags a, .article-tags a, .tag-item, .keyword-tags a").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			tags = append(tags, t)
		}
	})
	return tags
}

func extractCategories(doc *Document) (main, sub string) {
	crumbs := doc.Find(".breadcrumb li a, .breadcrumbs a, .bread-crumbs a, .navigation a")
	if crumbs.Length() >= 2 {
		main = strings.TrimSpace(crumbs.First().Text())
		sub = strings.TrimSpace(crumbs.Last().Text())
		return main, sub
	}

	main, _ = doc.Find(`meta[property="article:section"]`).First().Attr("content")
	return strings.TrimSpace(main), ""
}

// extractBody walks the content selectors in priority order. The first
// selector with a matching container supplies the raw HTML; paragraphs are
// collected from the same ordered walk, and when no selector yields any,
// the container's full text becomes a single inferred paragraph. As a last
// resort for publishers none of the selectors know, the raw page goes
// through readability.
func extractBody(doc *Document, profile SourceProfile, f *Fields) {
	selectors := profile.ContentSelectors
	if len(selectors) == 0 {
		selectors = Generic.ContentSelectors
	}

	var firstContainer *goquery.Selection
	for _, sel := range selectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}

		if firstContainer == nil {
			firstContainer = container
			if html, err := container.Html(); err == nil {
				f.HTMLContent = strings.TrimSpace(html)
			}
		}

		if len(f.Paragraphs) == 0 {
			container.Find("p").Each(func(_ int, p *goquery.Selection) {
				if text := strings.TrimSpace(p.Text()); text != "" {
					f.Paragraphs = append(f.Paragraphs, text)
				}
			})
		}

		if len(f.Paragraphs) > 0 && f.HTMLContent != "" {
			break
		}
	}

	// No selector produced paragraphs: treat the first container's full
	// text as one inferred paragraph, then readability as the last resort.
	if len(f.Paragraphs) == 0 && firstContainer != nil {
		if text := strings.TrimSpace(firstContainer.Text()); text != "" {
			f.Paragraphs = []string{text}
		}
	}
	if len(f.Paragraphs) == 0 {
		readabilityFallback(doc, f)
	}

	f.Content = strings.Join(f.Paragraphs, "\n\n")
}

// readabilityFallback runs the generic article extractor over the raw HTML.
// Best effort: a parse failure just leaves the body empty.
func readabilityFallback(doc *Document, f *Fields) {
	pageURL, err := url.Parse(doc.URL)
	if err != nil {
		return
	}
	article, err := readability.FromReader(strings.NewReader(doc.HTML), pageURL)
	if err != nil {
		log.Printf("readability fallback failed for %s: %v", doc.URL, err)
		return
	}

	if f.HTMLContent == "" {
		f.HTMLContent = strings.TrimSpace(article.Content)
	}
	for _, line := range strings.Split(article.TextContent, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			f.Paragraphs = append(f.Paragraphs, line)
		}
	}
}
