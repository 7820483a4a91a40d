package desi

import (
	"sync"
	"time"
)

// RateLimitConfig configures a KeyedRateLimiter.
type RateLimitConfig struct {
	RequestsPerMinute int // sustained rate per key, default 60
	BurstSize         int // bucket capacity, defaults to RequestsPerMinute
}

// KeyedRateLimiter keeps one token bucket per key, such as a client address.
// Buckets start full and refill continuously.
type KeyedRateLimiter struct {
	perSec   float64
	capacity float64
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens float64
	at     time.Time // last refill
}

// NewKeyedRateLimiter creates a KeyedRateLimiter whose buckets use cfg.
func NewKeyedRateLimiter(cfg RateLimitConfig) *KeyedRateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return &KeyedRateLimiter{
		perSec:   float64(rpm) / 60,
		capacity: float64(burst),
		now:      time.Now,
		buckets:  make(map[string]*bucket),
	}
}

// Allow takes a token from key's bucket, creating the bucket on first use.
func (k *KeyedRateLimiter) Allow(key string) bool {
	ok, _ := k.Reserve(key)
	return ok
}

// Reserve is like Allow but also reports, when the bucket is empty, how long
// until the next token is available.
func (k *KeyedRateLimiter) Reserve(key string) (bool, time.Duration) {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{tokens: k.capacity, at: now}
		k.buckets[key] = b
	}

	b.tokens += now.Sub(b.at).Seconds() * k.perSec
	if b.tokens > k.capacity {
		b.tokens = k.capacity
	}
	b.at = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	missing := 1 - b.tokens
	return false, time.Duration(missing / k.perSec * float64(time.Second))
}

// Cleanup drops buckets untouched for longer than maxIdle and returns how
// many were removed.
func (k *KeyedRateLimiter) Cleanup(maxIdle time.Duration) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := k.now().Add(-maxIdle)
	removed := 0
	for key, b := range k.buckets {
		if b.at.Before(cutoff) {
			delete(k.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (k *KeyedRateLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}
