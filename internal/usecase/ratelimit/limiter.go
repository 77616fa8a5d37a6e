// Package ratelimit provides a fixed-window per-client request limiter.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests allowed per window.
	DefaultLimit = 20
	// DefaultWindow is the fixed window duration.
	DefaultWindow = 60 * time.Second
)

type window struct {
	start time.Time
	count int
}

// Limiter tracks request counts per client key over fixed windows.
// All methods are safe for concurrent use.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*window

	stop chan struct{}
	done chan struct{}
}

// New creates a Limiter allowing limit requests per window duration and
// starts a background reaper that evicts expired windows. Call Stop to
// release it.
func New(limit int, windowDur time.Duration) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  windowDur,
		now:     time.Now,
		clients: make(map[string]*window),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.reap()
	return l
}

// Allow reports whether the client identified by key may proceed. The
// first request in a window always succeeds; once limit requests have
// been counted, further requests are denied until the window rolls over.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.clients[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Stop terminates the background reaper.
func (l *Limiter) Stop() {
	close(l.stop)
	<-l.done
}

func (l *Limiter) reap() {
	defer close(l.done)
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictExpired()
		}
	}
}

func (l *Limiter) evictExpired() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, key)
		}
	}
}
