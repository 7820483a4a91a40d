package desi

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key from a text hash and a language pair.
func CacheKey(hash, sourceLang, targetLang string) string {
	return hash + ":" + sourceLang + ":" + targetLang
}

// CacheKeyExtended generates a cache key that also carries the result kind,
// so plain, detailed and content-node results for the same text do not collide.
func CacheKeyExtended(hash, sourceLang, targetLang, kind string) string {
	return CacheKey(hash, sourceLang, targetLang) + ":" + kind
}
