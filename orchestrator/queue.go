package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"newsai/crawler"
	"newsai/queue"
)

// QueueSink publishes discovered URLs to Kafka instead of ingesting them
// inline, so discovery and ingestion can scale independently.
type QueueSink struct {
	Producer *queue.Producer
}

// Accept enqueues one URL job.
func (s *QueueSink) Accept(ctx context.Context, url, origin string) error {
	return s.Producer.Publish(queue.URLJob{URL: url, Discovered: origin})
}

// IngestHandler consumes URL jobs from Kafka and runs the pipeline.
type IngestHandler struct {
	Orchestrator *Orchestrator
}

// HandleMessage ingests the job's URL. Duplicates and malformed payloads
// are marked consumed; fetch failures are left unmarked for redelivery,
// since they are usually transient.
func (h *IngestHandler) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var job queue.URLJob
	if err := json.Unmarshal(message, &job); err != nil {
		return true, fmt.Errorf("malformed url job: %w", err)
	}
	if job.URL == "" {
		return true, errors.New("url job without url")
	}

	_, err := h.Orchestrator.Ingest(ctx, job.URL)
	switch {
	case err == nil, errors.Is(err, ErrDuplicateArticle):
		return true, nil
	default:
		var fetchErr *crawler.FetchError
		if errors.As(err, &fetchErr) {
			log.Printf("queue: fetch failed for %s, leaving for retry: %v", job.URL, err)
			return false, err
		}
		// Extraction and persistence failures will not heal on retry.
		return true, err
	}
}
