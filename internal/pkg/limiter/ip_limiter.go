/*
Package limiter throttles the two endpoints a visitor can hammer before
holding a game session: guest session issuance and the WebSocket connect. Each
client IP gets its own token bucket (rate.Limiter); buckets that refill back
to their burst capacity are swept periodically so idle visitors do not pin
memory.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/logx"
	"goroda/internal/pkg/resp"

	"golang.org/x/time/rate"
)

// cleanupInterval is how often full, and therefore idle, buckets are swept.
const cleanupInterval = 3 * time.Minute

// IPRateLimiter hands out one token bucket per client IP address.
type IPRateLimiter struct {
	mu sync.RWMutex

	// limits maps a client IP address to its *rate.Limiter.
	limits map[string]*rate.Limiter

	// r is the sustained rate, in events per second, granted to each IP.
	r rate.Limit

	// b is the burst size of each bucket.
	b int
}

// NewIPRateLimiter returns a limiter granting each IP rate r with burst b and
// starts the background sweep of idle buckets.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go i.sweepIdleBuckets()

	return i
}

// GetLimiter returns the bucket for ip, creating it on first sight. The
// read-lock fast path covers the common case of a returning visitor.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// sweepIdleBuckets drops buckets that have refilled to their burst capacity,
// meaning the IP has been quiet long enough to forget.
func (i *IPRateLimiter) sweepIdleBuckets() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		count := 0
		for ip, limiter := range i.limits {
			if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
				delete(i.limits, ip)
				count++
			}
		}
		remaining := len(i.limits)
		i.mu.Unlock()
		logx.Info("Rate limiter sweep removed %d idle IPs, %d still tracked.", count, remaining)
	}
}

// Middleware rejects requests whose IP exhausted its bucket with the 429
// rate-limit envelope.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		limiter := i.GetLimiter(ip)

		if !limiter.Allow() {
			rateLimitErr := errs.NewError(errs.ErrRateLimitExceeded)
			resp.RespondError(w, r, rateLimitErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}
