package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"newsai/api"
	"newsai/config"
	"newsai/crawler"
	"newsai/deduplication"
	"newsai/media"
	"newsai/orchestrator"
	"newsai/queue"
	"newsai/rewrite"
	"newsai/storage"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	log.SetOutput(os.Stderr)

	ctx := context.Background()

	store := mustInitStore(ctx)
	defer store.Close(context.Background())

	uploader := initUploader(ctx)
	rewriter := initRewriter()

	fetcher := crawler.NewFetcher(nil)
	orch := orchestrator.New(fetcher, uploader, rewriter, store)

	discovery := buildDiscovery(orch)

	if consumer := initConsumer(orch); consumer != nil {
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("kafka consumer stopped: %v", err)
			}
		}()
		defer consumer.Close()
	}

	addr := ":" + config.GetEnvOrDefault("PORT", "8080")
	r := api.NewRouter(api.Deps{
		Orchestrator: orch,
		Discovery:    discovery,
		Rewriter:     rewriter,
		Store:        store,
	})

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/crawl")
	log.Println("  POST /api/crawl/batch")
	log.Println("  POST /api/rss/refresh")
	log.Println("  GET  /api/post/check")
	log.Println("  GET  /api/post/:slug")
	log.Println("  POST /api/post/:slug/facebook")
	log.Println("  GET  /api/categories")
	log.Println("  GET  /api/category/:slug/posts")
	log.Println("  POST /api/rewrite")

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func mustInitStore(ctx context.Context) *storage.PostStore {
	uri := config.GetEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017")
	database := config.GetEnvOrDefault("MONGODB_DATABASE", "news")

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := storage.NewPostStore(cctx, uri, database)
	if err != nil {
		log.Fatalf("Failed to initialize post store: %v", err)
	}
	return store
}

// initUploader returns the S3 image mirror if configured via env; a nil
// uploader disables image hosting without affecting ingestion.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_USE_PATH_STYLE,
// CDN_BASE_URL.
func initUploader(ctx context.Context) crawler.Uploader {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		log.Println("S3 not configured; image uploads disabled")
		return nil
	}

	s3store, err := media.NewS3Store(ctx, media.S3Config{
		Bucket:        bucket,
		Region:        strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:       strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle:  strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
		PublicBaseURL: strings.TrimSpace(os.Getenv("CDN_BASE_URL")),
	})
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (uploads disabled)", err)
		return nil
	}
	return s3store
}

// initRewriter returns the Cohere-backed rewriter when COHERE_API_KEY is
// set; ingestion works without it, storing empty rewrite fields.
func initRewriter() orchestrator.Rewriter {
	apiKey := strings.TrimSpace(os.Getenv("COHERE_API_KEY"))
	if apiKey == "" {
		log.Println("Cohere not configured; rewrite disabled")
		return nil
	}

	generator := rewrite.NewCohereGenerator(apiKey, os.Getenv("COHERE_MODEL"))
	return rewrite.New(generator, 24000)
}

func buildDiscovery(orch *orchestrator.Orchestrator) *orchestrator.Discovery {
	feeds := splitList(os.Getenv("RSS_FEEDS"))
	homepages := splitList(os.Getenv("HOMEPAGES"))
	if len(feeds) == 0 && len(homepages) == 0 {
		feeds = []string{"https://vnexpress.net/rss/tin-moi-nhat.rss"}
	}

	d := &orchestrator.Discovery{
		Feeds:        feeds,
		Homepages:    homepages,
		MaxPerSource: 20,
		Sink:         &orchestrator.IngestSink{Orchestrator: orch},
	}

	if bloom := initBloom(); bloom != nil {
		d.Filter = bloom
	}
	if producer := initProducer(); producer != nil {
		d.Sink = &orchestrator.QueueSink{Producer: producer}
	}
	return d
}

func initBloom() *deduplication.RedisBloom {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil
	}

	bloom, err := deduplication.NewRedisBloom(deduplication.BloomConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
	})
	if err != nil {
		log.Printf("Warning: failed to init RedisBloom: %v (seen filter disabled)", err)
		return nil
	}
	return bloom
}

func initProducer() *queue.Producer {
	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		return nil
	}

	topic := config.GetEnvOrDefault("KAFKA_URL_TOPIC", "article-urls")
	producer, err := queue.NewProducer(brokers, topic)
	if err != nil {
		log.Printf("Warning: failed to init Kafka producer: %v (queue disabled)", err)
		return nil
	}
	return producer
}

func initConsumer(orch *orchestrator.Orchestrator) *queue.Consumer {
	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		return nil
	}

	consumer, err := queue.NewConsumer(queue.ConsumerConfig{
		Brokers: brokers,
		Topic:   config.GetEnvOrDefault("KAFKA_URL_TOPIC", "article-urls"),
		GroupID: config.GetEnvOrDefault("KAFKA_GROUP_ID", "newsai-ingest"),
		Handler: &orchestrator.IngestHandler{Orchestrator: orch},
	})
	if err != nil {
		log.Printf("Warning: failed to init Kafka consumer: %v", err)
		return nil
	}
	return consumer
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
