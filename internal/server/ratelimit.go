package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"solara/internal/metrics"
)

// ipLimiter is a sliding-window per-IP rate limiter. Request timestamps are
// kept in memory and pruned as they age out of the window, so the map only
// ever holds recently active clients.
type ipLimiter struct {
	name    string
	window  time.Duration
	max     int
	mu      sync.Mutex
	clients map[string][]time.Time
}

func newIPLimiter(name string, window time.Duration, max int) *ipLimiter {
	return &ipLimiter{
		name:    name,
		window:  window,
		max:     max,
		clients: make(map[string][]time.Time),
	}
}

// allow records a request for ip and reports whether it is within the limit.
func (l *ipLimiter) allow(ip string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.clients[ip][:0]
	for _, t := range l.clients[ip] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.clients[ip] = recent
		return false
	}

	l.clients[ip] = append(recent, now)
	return true
}

// Middleware rejects requests over the limit with a 429 and the standard
// JSON envelope.
func (l *ipLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			metrics.RecordRateLimited(l.name)
			respondJSON(w, http.StatusTooManyRequests, envelope{
				Success: false,
				Message: "Too many requests",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the remote IP. chi's RealIP middleware has already
// rewritten RemoteAddr from proxy headers when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
