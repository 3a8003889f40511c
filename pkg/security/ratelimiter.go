package security

import (
	"sync"
	"time"
)

const (
	maxBuckets      = 10000 // Limit to 10k unique clients to prevent memory exhaustion
	cleanupInterval = 5 * time.Minute
)

// RateLimiter implements a simple token bucket rate limiter keyed by client
// address.
type RateLimiter struct {
	buckets   map[string]*bucket
	stopCh    chan struct{}
	cleanupWG sync.WaitGroup
	maxTokens int
	window    time.Duration
	mu        sync.Mutex
}

type bucket struct {
	resetTime time.Time
	count     int
}

// NewRateLimiter creates a rate limiter allowing maxTokens requests per
// window for each client.
func NewRateLimiter(maxTokens int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:   make(map[string]*bucket),
		maxTokens: maxTokens,
		window:    window,
		stopCh:    make(chan struct{}),
	}

	// Start cleanup goroutine
	rl.cleanupWG.Add(1)
	go rl.cleanupRoutine()

	return rl
}

// Allow checks if a request from the given client is allowed.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[client]

	// Create new bucket or reset if expired
	if !exists || now.After(b.resetTime) {
		// Check if we've reached the max buckets limit
		if !exists && len(rl.buckets) >= maxBuckets {
			rl.evictOldest()
		}

		rl.buckets[client] = &bucket{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	// Check limit
	if b.count >= rl.maxTokens {
		return false
	}

	b.count++
	return true
}

// cleanupRoutine periodically removes expired buckets to prevent memory leaks.
func (rl *RateLimiter) cleanupRoutine() {
	defer rl.cleanupWG.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes expired buckets.
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for client, b := range rl.buckets {
		if now.After(b.resetTime) {
			delete(rl.buckets, client)
		}
	}
}

// evictOldest removes the oldest bucket (called with lock held).
func (rl *RateLimiter) evictOldest() {
	var oldestClient string
	var oldestTime time.Time

	for client, b := range rl.buckets {
		if oldestClient == "" || b.resetTime.Before(oldestTime) {
			oldestClient = client
			oldestTime = b.resetTime
		}
	}

	if oldestClient != "" {
		delete(rl.buckets, oldestClient)
	}
}

// Stop gracefully stops the rate limiter.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
	rl.cleanupWG.Wait()
}
