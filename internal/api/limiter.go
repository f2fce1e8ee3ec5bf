package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"stayhub/internal/config"
	"stayhub/internal/metrics"
)

// tierLimiter keeps one token bucket per client IP for a rate tier.
type tierLimiter struct {
	name     string
	rps      rate.Limit
	burst    int
	limiters sync.Map // map[string]*rate.Limiter
}

func newTierLimiter(name string, tier config.RateTier) *tierLimiter {
	burst := tier.Burst
	if burst <= 0 {
		burst = 5
	}
	return &tierLimiter{name: name, rps: rate.Limit(tier.RPS), burst: burst}
}

func (t *tierLimiter) get(key string) *rate.Limiter {
	if v, ok := t.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(t.rps, t.burst)
	actual, loaded := t.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (t *tierLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.rps <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !t.get(clientIP(r)).Allow() {
			metrics.IncRateLimited(t.name)
			writeError(w, http.StatusTooManyRequests, "Too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
