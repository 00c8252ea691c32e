// Package ratelimit implements per-fingerprint response pacing: identical
// requests cannot be answered faster than a configured interval apart,
// folding the two near-duplicate originals (renderer/src/rate_limiter.rs
// and renderer/src/web/rate_limiter.rs) into one canonical implementation
// (spec §4.5/§8, SPEC_FULL §4).
package ratelimit

import (
	"log"
	"sync"
	"time"

	"github.com/seismic-render/renderer/internal/render"
)

// defaultTTL is how long a fingerprint's last-scheduled time is
// remembered with no further requests for it; the two originals disagreed
// (10s vs 5s) and this keeps the longer of the two.
const defaultTTL = 10 * time.Second

type entry struct {
	scheduledAt time.Time
	expiresAt   time.Time
}

// Limiter schedules a response time for each fingerprint: the first
// request for a fingerprint is answered immediately, and any request for
// the same fingerprint within MinimumResponseInterval of the last one is
// pushed back to land exactly one interval after it.
type Limiter struct {
	minInterval time.Duration
	ttl         time.Duration

	mu      sync.Mutex
	entries map[render.Fingerprint]entry

	now func() time.Time
}

// New builds a Limiter with the given minimum response interval.
func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		minInterval: minInterval,
		ttl:         defaultTTL,
		entries:     make(map[render.Fingerprint]entry),
		now:         time.Now,
	}
}

// Schedule returns the time at which a response for fp should be sent,
// and logs the identity tag when the request was pushed back. Calling it
// updates fp's bookkeeping, so concurrent callers observe a consistent,
// strictly-paced schedule.
func (l *Limiter) Schedule(fp render.Fingerprint, identity string) time.Time {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictLocked(now)

	e, ok := l.entries[fp]
	var at time.Time
	switch {
	case !ok:
		at = now
	case e.scheduledAt.Add(l.minInterval).Before(now):
		at = now
	default:
		at = e.scheduledAt.Add(l.minInterval)
		log.Printf("ratelimit: scheduled after %s (%s)", at.Sub(now), identity)
	}

	l.entries[fp] = entry{scheduledAt: at, expiresAt: now.Add(l.ttl)}
	return at
}

// evictLocked drops entries whose TTL has lapsed. Called with mu held.
func (l *Limiter) evictLocked(now time.Time) {
	for fp, e := range l.entries {
		if now.After(e.expiresAt) {
			delete(l.entries, fp)
		}
	}
}
