package api

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spcalc/spcalc/pkg/catalog"
)

// SearchCache is a thread-safe LRU cache of catalog search results keyed by
// normalized query and limit. The catalog is immutable while the server runs,
// so entries never go stale.
type SearchCache struct {
	entries *lru.Cache[string, []catalog.Module]
}

// NewSearchCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 256.
func NewSearchCache(maxSize int) *SearchCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	entries, _ := lru.New[string, []catalog.Module](maxSize) // only errors on size <= 0
	return &SearchCache{entries: entries}
}

func cacheKey(query string, limit int) string {
	return strings.ToLower(strings.TrimSpace(query)) + "\x00" + strconv.Itoa(limit)
}

// Get returns cached results for a query, if present.
func (c *SearchCache) Get(query string, limit int) ([]catalog.Module, bool) {
	return c.entries.Get(cacheKey(query, limit))
}

// Put stores results for a query, evicting the least recently used entry if full.
func (c *SearchCache) Put(query string, limit int, results []catalog.Module) {
	c.entries.Add(cacheKey(query, limit), results)
}

// Len returns the number of cached queries.
func (c *SearchCache) Len() int {
	return c.entries.Len()
}
