// Package deduplication keeps the discovery stage from re-enqueueing
// article URLs it has handed to the pipeline recently. It is a fast-path
// guard only: the authoritative duplicate checks are the orchestrator's
// title match and the store's unique slug index.
package deduplication

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// BloomConfig configures the RedisBloom connection and filter key.
type BloomConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items).
	Capacity int
	// ErrorRate is the desired false positive probability (e.g. 0.001).
	ErrorRate float64
}

// RedisBloom is a minimal wrapper over RedisBloom's BF.* commands.
type RedisBloom struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisBloom connects to Redis and reserves the filter if absent.
func NewRedisBloom(cfg BloomConfig) (*RedisBloom, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Key == "" {
		cfg.Key = "articles:seen"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 100000
	}
	if cfg.ErrorRate <= 0 {
		cfg.ErrorRate = 0.001
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	// BF.RESERVE fails if the key already exists; that is fine.
	err := client.Do(ctx, "BF.RESERVE", cfg.Key, cfg.ErrorRate, cfg.Capacity).Err()
	if err != nil && !strings.Contains(err.Error(), "exists") {
		return nil, fmt.Errorf("bf.reserve: %w", err)
	}

	return &RedisBloom{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Seen reports whether the URL (normalized) is probably already tracked.
// False positives are possible at the configured error rate; false
// negatives are not.
func (b *RedisBloom) Seen(ctx context.Context, rawURL string) (bool, error) {
	n, err := b.client.Do(ctx, "BF.EXISTS", b.key, HashURL(rawURL)).Int()
	if err != nil {
		return false, fmt.Errorf("bf.exists: %w", err)
	}
	return n == 1, nil
}

// Add records the URL (normalized) and refreshes the filter's TTL.
func (b *RedisBloom) Add(ctx context.Context, rawURL string) error {
	if err := b.client.Do(ctx, "BF.ADD", b.key, HashURL(rawURL)).Err(); err != nil {
		return fmt.Errorf("bf.add: %w", err)
	}
	if b.ttl > 0 {
		if err := b.client.Expire(ctx, b.key, b.ttl).Err(); err != nil {
			return fmt.Errorf("expire: %w", err)
		}
	}
	return nil
}

// Close releases the Redis connection.
func (b *RedisBloom) Close() error {
	return b.client.Close()
}

// trackingParams are stripped before hashing so the same article shared
// through different campaigns hashes identically.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {},
	"utm_term": {}, "utm_content": {},
	"fbclid": {}, "gclid": {},
}

// NormalizeURL lowercases the scheme and host, drops the fragment and
// tracking query parameters, and trims a trailing slash.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if _, tracked := trackingParams[strings.ToLower(param)]; tracked {
			q.Del(param)
		}
	}
	// Re-encode with sorted keys for stable output.
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var enc strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if enc.Len() > 0 {
				enc.WriteByte('&')
			}
			enc.WriteString(url.QueryEscape(k))
			enc.WriteByte('=')
			enc.WriteString(url.QueryEscape(v))
		}
	}
	u.RawQuery = enc.String()
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// HashURL returns a stable hex digest of the normalized URL.
func HashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(NormalizeURL(rawURL)))
	return hex.EncodeToString(sum[:])
}
