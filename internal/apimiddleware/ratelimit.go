package apimiddleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter holds one token-bucket limiter per client IP.
type IPRateLimiter struct {
	ips    sync.Map
	config limiterConfig
}

type limiterConfig struct {
	RPS   rate.Limit
	Burst int
}

func NewIPRateLimiter(rps rate.Limit, burst int) *IPRateLimiter {
	l := &IPRateLimiter{config: limiterConfig{RPS: rps, Burst: burst}}
	go l.cleanupLoop()
	return l
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if existing, ok := l.ips.Load(ip); ok {
		return existing.(*rate.Limiter)
	}
	fresh := rate.NewLimiter(l.config.RPS, l.config.Burst)
	l.ips.Store(ip, fresh)
	return fresh
}

// cleanupLoop periodically wipes the tracked IP set so memory doesn't grow
// unbounded across long-lived processes; a restart-grade reset, not an LRU.
func (l *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(10 * time.Minute)
		l.ips.Range(func(key, _ any) bool {
			l.ips.Delete(key)
			return true
		})
	}
}

// Middleware enforces the configured rate per client IP.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.getLimiter(r.RemoteAddr).Allow() {
			slog.Warn("rate limit exceeded", "ip", r.RemoteAddr, "path", r.URL.Path)
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
