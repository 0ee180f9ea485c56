package rssfeeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsai/normalize"
)

// FeedItem is one entry of a publisher's RSS/Atom feed, reduced to what
// the discovery stage needs.
type FeedItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Slug      string `json:"slug"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Snippet   string `json:"snippet,omitempty"`
	PubDate   string `json:"pub_date,omitempty"`
}

// FetchFeed retrieves and parses a feed, returning at most maxCount items.
// Thumbnails come from the enclosure or media:content extension when the
// feed carries one.
func FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]FeedItem, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}

	count := len(feed.Items)
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}

	items := make([]FeedItem, 0, count)
	for _, item := range feed.Items[:count] {
		if item.Link == "" {
			continue
		}

		items = append(items, FeedItem{
			Title:     item.Title,
			Link:      item.Link,
			Slug:      normalize.SlugFromURL(item.Link, item.Title),
			Thumbnail: itemThumbnail(item),
			Snippet:   strings.TrimSpace(item.Description),
			PubDate:   item.Published,
		})
	}
	return items, nil
}

// itemThumbnail reads the enclosure first, then media:content.
func itemThumbnail(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
