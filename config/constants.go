package config

import (
	"os"
	"strings"
	"time"
)

// Pipeline constants
const (
	// FetchTimeout bounds a single article page download.
	FetchTimeout = 10 * time.Second

	// UploadWorkers caps concurrent image uploads per article.
	UploadWorkers = 5

	// UploadTimeout bounds a single image mirror operation.
	UploadTimeout = 30 * time.Second

	// RewriteTimeout bounds the single rewrite call per article.
	RewriteTimeout = 90 * time.Second

	// ReadingRate is the words-per-minute rate used for read time.
	ReadingRate = 200

	// UserAgent identifies the fetcher as a regular browser; several
	// publishers serve stripped-down or blocked markup to default clients.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

	// MediaFolder is the logical folder images are mirrored under.
	MediaFolder = "news-thumbnails"
)

// GetEnvOrDefault returns the trimmed value of an environment variable,
// or the fallback when it is unset or blank.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
