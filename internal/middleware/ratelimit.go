package middleware

import (
	"net/http"
	"sync"
	"time"
)

type visitor struct {
	requests []time.Time
	mu       sync.Mutex
}

// RateLimiter allows up to max requests per client IP within a sliding
// window.
type RateLimiter struct {
	max    int
	window time.Duration
	store  sync.Map

	sweepMu   sync.Mutex
	lastSweep time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window}
}

func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.sweep(now)

	v, _ := rl.store.LoadOrStore(ip, &visitor{})
	entry := v.(*visitor)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	kept := entry.requests[:0]
	for _, t := range entry.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	entry.requests = kept

	if len(entry.requests) >= rl.max {
		return false
	}

	entry.requests = append(entry.requests, now)
	return true
}

// sweep drops visitors whose windows have emptied, at most once per window,
// so idle clients do not accumulate in the store forever.
func (rl *RateLimiter) sweep(now time.Time) {
	rl.sweepMu.Lock()
	if now.Sub(rl.lastSweep) < rl.window {
		rl.sweepMu.Unlock()
		return
	}
	rl.lastSweep = now
	rl.sweepMu.Unlock()

	cutoff := now.Add(-rl.window)
	rl.store.Range(func(key, value any) bool {
		entry := value.(*visitor)
		entry.mu.Lock()
		idle := len(entry.requests) == 0 || !entry.requests[len(entry.requests)-1].After(cutoff)
		entry.mu.Unlock()
		if idle {
			rl.store.Delete(key)
		}
		return true
	})
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			ip = forwarded
		}
		if !rl.allow(ip) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
