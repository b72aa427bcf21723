// Package ratelimit throttles clients with token buckets, one bucket per client and
// endpoint class.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// bucket refills at rate tokens per second up to capacity.
type bucket struct {
	mu       sync.Mutex
	capacity int
	rate     float64
	tokens   float64
	last     time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{capacity: capacity, rate: rate, tokens: float64(capacity), last: now}
}

// take consumes a token when one is available and reports the bucket state afterwards.
func (b *bucket) take(now time.Time) (ok bool, remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(float64(b.capacity), b.tokens+now.Sub(b.last).Seconds()*b.rate)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}

	remaining = int(b.tokens)
	reset = now
	if missing := float64(b.capacity) - b.tokens; missing > 0 {
		reset = now.Add(time.Duration(missing / b.rate * float64(time.Second)))
	}
	return ok, remaining, reset
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks buckets for recently seen clients. Idle buckets expire, and the number
// of tracked buckets is bounded so a flood of client addresses cannot exhaust memory.
type Limiter struct {
	config  *Config
	buckets *expirable.LRU[string, *bucket]
	mu      sync.Mutex
	now     func() time.Time
}

// NewLimiter creates a limiter. A nil config allows 1000 requests per minute per client.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:       true,
			DefaultLimit:  1000,
			DefaultWindow: time.Minute,
		}
	}
	size := config.MaxBuckets
	if size <= 0 {
		size = DefaultMaxBuckets
	}
	ttl := config.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Limiter{
		config:  config,
		buckets: expirable.NewLRU[string, *bucket](size, nil, ttl),
		now:     time.Now,
	}
}

// Allow consumes a token for clientID on the endpoint class of path and method.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	rule := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if rule == nil {
		rule = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucket(clientID+"|"+rule.key(), rule, now)
	allowed, remaining, reset := b.take(now)

	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		info.RetryAfter = max(reset.Sub(now), 0)
	}
	return allowed, info
}

// bucket returns the bucket for key, creating it on first use and refreshing its expiry.
func (l *Limiter) bucket(key string, rule *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(key)
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds(), now)
	}
	l.buckets.Add(key, b)
	return b
}

// Len returns the number of tracked buckets.
func (l *Limiter) Len() int {
	return l.buckets.Len()
}

// Stop drops every tracked bucket.
func (l *Limiter) Stop() {
	l.buckets.Purge()
}
