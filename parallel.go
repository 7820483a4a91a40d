package desi

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxLookupWorkers bounds concurrent cache lookups, which matters for
// network-backed caches.
const maxLookupWorkers = 16

// ParallelCacheLookup performs cache lookups concurrently, one per distinct
// hash. It returns a map of hash to cached translation and the cache misses
// in original order, deduplicated by hash.
func ParallelCacheLookup(ctx context.Context, cache TranslationCache, nodes []TextNode, sourceLang, targetLang string) (map[string]string, []TextNode, error) {
	translations := make(map[string]string)
	if cache == nil || len(nodes) == 0 {
		return translations, dedupNodes(nodes), nil
	}

	// Deduplicate nodes by hash first
	var hashes []string
	seen := make(map[string]bool)
	for _, node := range nodes {
		if !seen[node.Hash] {
			seen[node.Hash] = true
			hashes = append(hashes, node.Hash)
		}
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookupWorkers)
	for _, h := range hashes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if val, ok := cache.Get(CacheKey(h, sourceLang, targetLang)); ok {
				mu.Lock()
				translations[h] = val
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var misses []TextNode
	for _, node := range dedupNodes(nodes) {
		if _, ok := translations[node.Hash]; !ok {
			misses = append(misses, node)
		}
	}
	return translations, misses, nil
}

// dedupNodes keeps the first node of every hash.
func dedupNodes(nodes []TextNode) []TextNode {
	var out []TextNode
	seen := make(map[string]bool)
	for _, node := range nodes {
		if !seen[node.Hash] {
			seen[node.Hash] = true
			out = append(out, node)
		}
	}
	return out
}
