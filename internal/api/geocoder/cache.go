package geocoder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 1024

var _ Geocoder = (*CachingGeocoder)(nil)

// CachingGeocoder remembers answers of the wrapped Geocoder, including "not found".
// Errors are never cached.
type CachingGeocoder struct {
	next   Geocoder
	cache  *lru.Cache[string, *Result]
	logger *slog.Logger
}

func NewCachingGeocoder(next Geocoder, size int, logger *slog.Logger) (*CachingGeocoder, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder cache: %w", err)
	}
	return &CachingGeocoder{next: next, cache: cache, logger: logger}, nil
}

func (c *CachingGeocoder) Geocode(ctx context.Context, query string) (*Result, error) {
	key := strings.ToLower(strings.Join(strings.Fields(query), " "))
	if result, ok := c.cache.Get(key); ok {
		c.logger.DebugContext(ctx, "Geocoder cache hit", slog.String("query", query))
		return result, nil
	}

	result, err := c.next.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, result)
	return result, nil
}
