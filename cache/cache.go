// Package cache provides translation result caches for desi: a bounded
// in-process TTL map and a Redis-backed cache shared between instances.
//
// Keys are produced by desi.CacheKey and desi.CacheKeyExtended; values are
// serialized results owned by the translator.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached value. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a value in the cache.
	Set(key string, value string) error
}

// ExportableCache is a cache that can enumerate its live keys.
type ExportableCache interface {
	TranslationCache
	Keys() ([]string, error)
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
