package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter rate limits requests per client address. Stale clients are
// evicted so the map does not grow without bound.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newClientLimiter allows perMinute requests per minute per client.
func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*client),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
	}
}

func (l *clientLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now

	for key, other := range l.clients {
		if now.Sub(other.lastSeen) > 3*time.Minute {
			delete(l.clients, key)
		}
	}

	return c.limiter.Allow()
}

// middleware rejects over-limit requests with a 429 JSON error.
func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		// Use X-Forwarded-For if behind a reverse proxy
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			addr = xff
		}

		if !l.allow(addr) {
			writeJSON(nil, w, http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   "rate limit exceeded",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
