// Package api implements the folio HTTP surface using chi.
package api

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SecurityHeaders sets the response headers every page and API response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		next.ServeHTTP(w, r)
	})
}

type peerAddrKey struct{}

// PeerAddr records the connection's remote address before any middleware
// rewrites RemoteAddr from forwarding headers. Mount it ahead of
// middleware.RealIP; login throttling and audit entries key on this value.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per client address.
type LoginLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLoginLimiter allows perMinute attempts per client with the given burst.
// Entries idle for longer than idle are dropped by a background sweep.
func NewLoginLimiter(perMinute, burst int, idle time.Duration) *LoginLimiter {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	l := &LoginLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idle:     idle,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop ends the background sweep.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Allow reports whether key may attempt a login now.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	l.mu.Unlock()
	return cl.limiter.Allow()
}

// Len returns the number of tracked clients.
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects requests over the limit with 429. onLimited, if
// non-nil, is called for each rejected request.
func (l *LoginLimiter) Middleware(onLimited func(r *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientKey(r)) {
				if onLimited != nil {
					onLimited(r)
				}
				retry := max(int(math.Ceil(1.0/float64(l.limit))), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeJSON(w, http.StatusTooManyRequests, errorBody("too many login attempts, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *LoginLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, cl := range l.limiters {
		if now.Sub(cl.lastAccess) > l.idle {
			delete(l.limiters, key)
		}
	}
}

// clientKey is the connection's remote host without the port. It prefers
// the address PeerAddr captured so forwarding headers cannot change it.
func clientKey(r *http.Request) string {
	addr, ok := r.Context().Value(peerAddrKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
