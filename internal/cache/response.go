// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// response.go provides a Valkey-backed cache of public JSON responses.
// Category trees and menus change only on admin writes, so they are cached
// until invalidated. Anything showing open/closed state is keyed by the
// current minute and expires with it.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix is the Valkey key prefix for cached responses.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL is how long a structural response stays cached.
	DefaultResponseTTL = 5 * time.Minute
)

// ResponseCache manages public API response caching in Valkey.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a new response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached body. Misses and errors both report false.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a body. A zero ttl uses the cache default.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if ttl == 0 {
		ttl = rc.ttl
	}
	if err := rc.client.Set(ctx, responseKeyPrefix+key, body, ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Called after any write, since category, status and listing changes all
// ripple into several endpoints.
func (rc *ResponseCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := rc.client.Scan(ctx, cursor, responseKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("response cache cleared", "deleted", deleted)
	}
}

// CategoriesKey returns the key of the category forest for a search query.
func CategoriesKey(query string) string {
	return "categories:" + url.QueryEscape(query)
}

// MenuKey returns the key of a menu location tree.
func MenuKey(location string) string {
	return "menu:" + location
}

// ListingsKey returns the key of a listing search, scoped to the minute
// now falls in.
func ListingsKey(query url.Values, now time.Time) string {
	return fmt.Sprintf("listings:%s:%d", query.Encode(), minuteOf(now))
}

// ListingKey returns the key of a listing detail, scoped to the minute now
// falls in.
func ListingKey(slug string, now time.Time) string {
	return fmt.Sprintf("listing:%s:%d", slug, minuteOf(now))
}

// MinuteTTL is the lifetime of minute-scoped entries.
const MinuteTTL = time.Minute

func minuteOf(t time.Time) int64 {
	return t.Unix() / 60
}
