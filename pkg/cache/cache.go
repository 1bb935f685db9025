package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medtrack/pharmacy-pos/pkg/logger"
)

// Store is a Redis-backed response cache for read-only endpoints.
// A nil Redis client disables caching entirely.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a cache store with the given key prefix and TTL
func New(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Middleware caches successful GET responses in Redis
func (s *Store) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip caching if Redis is not available
		if s == nil || s.client == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := s.key(r)
		ctx := r.Context()

		cached, err := s.client.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Debug(ctx).
				Str("path", r.URL.Path).
				Str("cache_key", key).
				Msg("Cache hit")

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK && rec.body.Len() > 0 {
			if err := s.client.Set(ctx, key, rec.body.Bytes(), s.ttl).Err(); err != nil {
				logger.Warn(ctx).
					Err(err).
					Str("cache_key", key).
					Msg("Failed to cache response")
			}
		}
	}
}

// Invalidate drops every cached response under the store's prefix.
// Called after any mutation that changes stock or medicine records.
func (s *Store) Invalidate(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}

	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("cache_key", iter.Val()).
				Msg("Failed to invalidate cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Cache invalidation scan failed")
	}
}

func (s *Store) key(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%s", s.prefix, hex.EncodeToString(sum[:16]))
}

// recorder captures the response so it can be written to Redis
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
