package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"superchat/internal/apperror"
)

type keyLimiter struct {
	lim *rate.Limiter
	ts  time.Time
}

type rateLimiter struct {
	mu  sync.Mutex
	m   map[string]*keyLimiter
	r   rate.Limit
	b   int
	ttl time.Duration
}

func newRateLimiter(r rate.Limit, burst int, ttl time.Duration) *rateLimiter {
	rl := &rateLimiter{m: make(map[string]*keyLimiter), r: r, b: burst, ttl: ttl}
	go rl.gc()
	return rl
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	kl, ok := rl.m[key]
	if ok {
		kl.ts = time.Now()
		return kl.lim
	}
	lim := rate.NewLimiter(rl.r, rl.b)
	rl.m[key] = &keyLimiter{lim: lim, ts: time.Now()}
	return lim
}

func (rl *rateLimiter) gc() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for k, v := range rl.m {
			if now.Sub(v.ts) > rl.ttl {
				delete(rl.m, k)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns an IP+path token-bucket middleware. Used on the auth
// routes to slow down credential stuffing.
func RateLimit(r rate.Limit, burst int) func(http.Handler) http.Handler {
	rl := newRateLimiter(r, burst, 2*time.Minute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := clientIP(req.RemoteAddr) + "|" + req.URL.Path
			if !rl.get(key).Allow() {
				writeError(w, apperror.New(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests. Please slow down."))
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func clientIP(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
