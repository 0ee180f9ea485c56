package orchestrator

import (
	"context"
	"errors"
	"log"

	"newsai/rssfeeds"
)

// SeenFilter guards discovery against re-enqueueing recently seen URLs.
type SeenFilter interface {
	Seen(ctx context.Context, url string) (bool, error)
	Add(ctx context.Context, url string) error
}

// URLSink receives discovered article URLs. The Kafka producer and the
// direct-ingest adapter both implement it.
type URLSink interface {
	Accept(ctx context.Context, url, origin string) error
}

// Discovery polls configured RSS feeds and homepages for new article URLs
// and hands the unseen ones to a sink.
type Discovery struct {
	Feeds        []string
	Homepages    []string
	MaxPerSource int
	Filter       SeenFilter // optional
	Sink         URLSink
}

// Run performs one discovery sweep. Per-source failures are logged and do
// not stop the sweep; the return value counts URLs handed to the sink.
func (d *Discovery) Run(ctx context.Context) int {
	accepted := 0

	for _, feedURL := range d.Feeds {
		items, err := rssfeeds.FetchFeed(ctx, feedURL, d.MaxPerSource)
		if err != nil {
			log.Printf("discovery: feed %s failed: %v", feedURL, err)
			continue
		}
		for _, item := range items {
			if d.accept(ctx, item.Link, feedURL) {
				accepted++
			}
		}
	}

	for _, homeURL := range d.Homepages {
		links, err := rssfeeds.DiscoverLinks(ctx, nil, homeURL)
		if err != nil {
			log.Printf("discovery: homepage %s failed: %v", homeURL, err)
			continue
		}
		if d.MaxPerSource > 0 && len(links) > d.MaxPerSource {
			links = links[:d.MaxPerSource]
		}
		for _, link := range links {
			if d.accept(ctx, link, homeURL) {
				accepted++
			}
		}
	}

	log.Printf("discovery: %d url(s) accepted", accepted)
	return accepted
}

func (d *Discovery) accept(ctx context.Context, url, origin string) bool {
	if d.Filter != nil {
		seen, err := d.Filter.Seen(ctx, url)
		if err != nil {
			// A broken filter must not stall ingestion; fall through.
			log.Printf("discovery: seen check failed for %s: %v", url, err)
		} else if seen {
			return false
		}
	}

	if err := d.Sink.Accept(ctx, url, origin); err != nil {
		log.Printf("discovery: sink rejected %s: %v", url, err)
		return false
	}

	if d.Filter != nil {
		if err := d.Filter.Add(ctx, url); err != nil {
			log.Printf("discovery: seen add failed for %s: %v", url, err)
		}
	}
	return true
}

// IngestSink ingests accepted URLs inline, for deployments without Kafka.
type IngestSink struct {
	Orchestrator *Orchestrator
}

// Accept runs the pipeline for the URL. Duplicate rejections are silent.
func (s *IngestSink) Accept(ctx context.Context, url, origin string) error {
	_, err := s.Orchestrator.Ingest(ctx, url)
	if errors.Is(err, ErrDuplicateArticle) {
		return nil
	}
	return err
}
